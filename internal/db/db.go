// Package db opens the SQL database behind the record store.
package db

import (
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver, used when DB_URL is a postgres URL
	_ "modernc.org/sqlite"             // cgo-free sqlite driver, the default store

	"projectboard/internal/config"
	"projectboard/internal/logx"
)

var dbLogger = logx.GetScope("db")

var baseDB *sql.DB

// Dialects understood by the store layer.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// DialectFor picks the SQL dialect from the configured URL. Anything that is
// not a postgres URL is treated as a sqlite path or file: URI.
func DialectFor(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open opens the database for cfg.DB.URL and returns the handle plus dialect.
func Open(cfg *config.Config) (*sql.DB, string, func(), error) {
	dialect := DialectFor(cfg.DB.URL)
	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "pgx"
	}

	sqldb, err := sql.Open(driver, cfg.DB.URL)
	if err != nil {
		return nil, dialect, func() {}, err
	}
	sqldb.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	baseDB = sqldb

	closer := func() {
		baseDB = nil
		if err := sqldb.Close(); err != nil {
			dbLogger.Sugar().Errorf("close db: %v", err)
		}
	}
	return sqldb, dialect, closer, nil
}

// UpdatePool updates DB pool settings at runtime.
func UpdatePool(maxOpen, maxIdle int) {
	if baseDB == nil {
		return
	}
	if maxOpen > 0 {
		baseDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		baseDB.SetMaxIdleConns(maxIdle)
	}
}
