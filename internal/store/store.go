// Package store persists project records in a single SQL table keyed by the
// unique project name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"projectboard/internal/db"
	"projectboard/internal/logx"
	"projectboard/internal/metrics"
)

var storeLogger = logx.GetScope("store")

// Sentinel errors classified at the handler boundary.
var (
	ErrNotFound     = errors.New("project not found")
	ErrDuplicate    = errors.New("project name already exists")
	ErrUnknownField = errors.New("unknown field")
)

// Store runs CRUD statements against the projects table.
type Store struct {
	db      *sql.DB
	dialect string
}

// New wraps an open database handle. dialect is db.DialectSQLite or
// db.DialectPostgres and only affects DDL and placeholders.
func New(sqldb *sql.DB, dialect string) *Store {
	return &Store{db: sqldb, dialect: dialect}
}

// Migrate creates the projects table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	idCol := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == db.DialectPostgres {
		idCol = "id BIGSERIAL PRIMARY KEY"
	}
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS projects (
			%s,
			project_name TEXT NOT NULL UNIQUE,
			code TEXT NOT NULL,
			overview TEXT,
			project_scope TEXT,
			project_goals_1 TEXT,
			project_goals_2 TEXT,
			exec_sponsor TEXT,
			business_product TEXT,
			process_owner TEXT,
			pm TEXT,
			dev TEXT,
			budget_actual_usd REAL,
			budget_planned_usd REAL,
			risk TEXT,
			milestones0 TEXT,
			milestones1 TEXT,
			milestones2 TEXT,
			milestones3 TEXT,
			milestones4 TEXT,
			milestones5 TEXT
		)`, idCol)
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// placeholder renders the n-th statement parameter (1-based) for the dialect.
func (s *Store) placeholder(n int) string {
	if s.dialect == db.DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *Store) observe(op string) func() {
	start := time.Now()
	return func() { metrics.RecordDBQueryDuration(op, "projects", time.Since(start)) }
}

const selectCols = `id, project_name, code, overview, project_scope,
	project_goals_1, project_goals_2, exec_sponsor, business_product,
	process_owner, pm, dev, budget_actual_usd, budget_planned_usd, risk,
	milestones0, milestones1, milestones2, milestones3, milestones4, milestones5`

func scanRecord(row interface{ Scan(...any) error }) (*ProjectRecord, error) {
	var (
		r    ProjectRecord
		text [16]sql.NullString
		num  [2]sql.NullFloat64
	)
	err := row.Scan(
		&r.ID, &r.ProjectName, &r.Code,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5],
		&text[6], &text[7], &text[8],
		&num[0], &num[1],
		&text[9],
		&text[10], &text[11], &text[12], &text[13], &text[14], &text[15],
	)
	if err != nil {
		return nil, err
	}
	r.Overview = text[0].String
	r.ProjectScope = text[1].String
	r.ProjectGoals1 = text[2].String
	r.ProjectGoals2 = text[3].String
	r.ExecSponsor = text[4].String
	r.BusinessProduct = text[5].String
	r.ProcessOwner = text[6].String
	r.PM = text[7].String
	r.Dev = text[8].String
	r.Risk = text[9].String
	r.BudgetActualUSD = num[0].Float64
	r.BudgetPlannedUSD = num[1].Float64
	r.Milestones0 = text[10].String
	r.Milestones1 = text[11].String
	r.Milestones2 = text[12].String
	r.Milestones3 = text[13].String
	r.Milestones4 = text[14].String
	r.Milestones5 = text[15].String
	return &r, nil
}

// List returns all project records ordered by id.
func (s *Store) List(ctx context.Context) ([]ProjectRecord, error) {
	defer s.observe("list")()
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectCols+" FROM projects ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectRecord, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetByID fetches one record by its surrogate id.
func (s *Store) GetByID(ctx context.Context, id int64) (*ProjectRecord, error) {
	defer s.observe("get_by_id")()
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectCols+" FROM projects WHERE id = "+s.placeholder(1), id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// GetByName fetches one record by the unique project name.
func (s *Store) GetByName(ctx context.Context, name string) (*ProjectRecord, error) {
	defer s.observe("get_by_name")()
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectCols+" FROM projects WHERE project_name = "+s.placeholder(1), name)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// Count returns the number of stored projects.
func (s *Store) Count(ctx context.Context) (int, error) {
	defer s.observe("count")()
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&n)
	return n, err
}

// Create inserts a new record. A duplicate project_name yields ErrDuplicate.
func (s *Store) Create(ctx context.Context, r *ProjectRecord) error {
	defer s.observe("create")()
	cols := strings.Join(Columns, ", ")
	marks := make([]string, len(Columns))
	for i := range Columns {
		marks[i] = s.placeholder(i + 1)
	}
	fields := r.Fields()
	args := make([]any, len(Columns))
	for i, c := range Columns {
		args[i] = nullable(c, fields[c])
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO projects (%s) VALUES (%s)", cols, strings.Join(marks, ", ")),
		args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.ProjectName)
		}
		return err
	}
	storeLogger.Sugar().Debugw("project created", "project_name", r.ProjectName)
	return nil
}

// UpdateByName applies a partial update keyed by project name. The SET clause
// is built from the keys present in fields; absent columns stay untouched.
// Keys outside the column whitelist yield ErrUnknownField; zero matched rows
// yield ErrNotFound.
func (s *Store) UpdateByName(ctx context.Context, name string, fields map[string]any) error {
	defer s.observe("update_by_name")()
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty update", ErrUnknownField)
	}
	for k := range fields {
		if !IsColumn(k) {
			return fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
	}

	// Iterate the canonical column order so the statement is deterministic.
	set := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, c := range Columns {
		v, ok := fields[c]
		if !ok {
			continue
		}
		set = append(set, fmt.Sprintf("%s = %s", c, s.placeholder(len(args)+1)))
		args = append(args, nullable(c, v))
	}
	args = append(args, name)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE projects SET %s WHERE project_name = %s",
			strings.Join(set, ", "), s.placeholder(len(args))),
		args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, fields["project_name"])
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	storeLogger.Sugar().Debugw("project updated", "project_name", name, "fields", len(fields))
	return nil
}

// DeleteByName removes a record by project name; ErrNotFound when absent.
func (s *Store) DeleteByName(ctx context.Context, name string) error {
	defer s.observe("delete_by_name")()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM projects WHERE project_name = "+s.placeholder(1), name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	storeLogger.Sugar().Debugw("project deleted", "project_name", name)
	return nil
}

// nullable maps empty strings and zero budgets to NULL, matching the original
// table where every column but project_name and code is nullable.
func nullable(col string, v any) any {
	if col == "project_name" || col == "code" {
		return v
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
	case float64:
		if t == 0 {
			return nil
		}
	}
	return v
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// modernc sqlite: "constraint failed: UNIQUE constraint failed";
	// postgres: `duplicate key value violates unique constraint` (23505).
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505")
}
