package projects_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	_ "modernc.org/sqlite"

	"projectboard/internal/db"
	"projectboard/internal/httpx"
	"projectboard/internal/httpx/kit/testutil"
	"projectboard/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	st := store.New(sqldb, db.DialectSQLite)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := testutil.NewApp(func(a *fiber.App) {
		httpx.Register(a, st)
	})
	return app, st
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, raw
}

func seed(t *testing.T, st *store.Store, names ...string) {
	t.Helper()
	for _, n := range names {
		rec := &store.ProjectRecord{ProjectName: n, Code: "PRJ", Risk: "low", Milestones0: "2024-01-01"}
		if err := st.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}
}

func errorBody(t *testing.T, raw []byte) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal error body %q: %v", raw, err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	resp, raw := doJSON(t, app, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.Unmarshal(raw, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %s", raw)
	}
}

func TestListProjects(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Alpha", "Bravo")

	resp, raw := doJSON(t, app, http.MethodGet, "/projects", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	// The list endpoint returns a bare array, not an envelope.
	var list []store.ProjectRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	if len(list) != 2 || list[0].ProjectName != "Alpha" || list[1].ProjectName != "Bravo" {
		t.Errorf("list = %+v", list)
	}
}

func TestListProjectsEmpty(t *testing.T) {
	app, _ := newTestApp(t)
	resp, raw := doJSON(t, app, http.MethodGet, "/projects", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(raw) != "[]" {
		t.Errorf("empty list body = %q, want []", raw)
	}
}

func TestCountProjects(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Alpha", "Bravo", "Charlie")

	resp, raw := doJSON(t, app, http.MethodGet, "/projects/count", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]int
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	if body["count"] != 3 {
		t.Errorf("count = %d", body["count"])
	}
}

func TestGetProjectByID(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Alpha")
	rec, err := st.GetByName(context.Background(), "Alpha")
	if err != nil {
		t.Fatal(err)
	}

	resp, raw := doJSON(t, app, http.MethodGet, fmt.Sprintf("/projects/%d", rec.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var got store.ProjectRecord
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ProjectName != "Alpha" {
		t.Errorf("record = %+v", got)
	}

	resp, raw = doJSON(t, app, http.MethodGet, "/projects/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing id status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project not found" {
		t.Errorf("error = %q", errorBody(t, raw))
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/projects/0", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero id status = %d", resp.StatusCode)
	}
}

func TestGetProjectByName(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Alpha Centauri")

	resp, raw := doJSON(t, app, http.MethodGet, "/projects/name/Alpha%20Centauri", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var got store.ProjectRecord
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ProjectName != "Alpha Centauri" {
		t.Errorf("record = %+v", got)
	}

	resp, raw = doJSON(t, app, http.MethodGet, "/projects/name/Nobody", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing name status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project not found" {
		t.Errorf("error = %q", errorBody(t, raw))
	}
}

func TestCreateProject(t *testing.T) {
	app, st := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/projects", map[string]any{
		"project_name":      "Apollo",
		"code":              "PRJ-001",
		"budget_actual_usd": 1200.5,
		"milestones0":       "2024-01-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var body map[string]string
	_ = json.Unmarshal(raw, &body)
	if body["message"] != "Project created successfully" {
		t.Errorf("body = %s", raw)
	}

	rec, err := st.GetByName(context.Background(), "Apollo")
	if err != nil {
		t.Fatalf("created record missing: %v", err)
	}
	if rec.Code != "PRJ-001" || rec.BudgetActualUSD != 1200.5 {
		t.Errorf("record = %+v", rec)
	}
}

func TestCreateProjectErrors(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Apollo")

	// Missing required columns.
	resp, _ := doJSON(t, app, http.MethodPost, "/projects", map[string]any{"overview": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name/code status = %d", resp.StatusCode)
	}

	// Unknown column.
	resp, _ = doJSON(t, app, http.MethodPost, "/projects", map[string]any{
		"project_name": "X", "code": "C", "nope": "y",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field status = %d", resp.StatusCode)
	}

	// Duplicate name.
	resp, raw := doJSON(t, app, http.MethodPost, "/projects", map[string]any{
		"project_name": "Apollo", "code": "C",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project name already exists" {
		t.Errorf("error = %q", errorBody(t, raw))
	}

	// Empty body.
	resp, _ = doJSON(t, app, http.MethodPost, "/projects", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty body status = %d", resp.StatusCode)
	}
}

func TestUpdateProject(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Apollo")

	resp, raw := doJSON(t, app, http.MethodPut, "/projects", map[string]any{
		"projectName": "Apollo",
		"updatedData": map[string]any{"risk": "high", "project_name": "Artemis"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var body map[string]string
	_ = json.Unmarshal(raw, &body)
	if body["message"] != "Project updated successfully" {
		t.Errorf("body = %s", raw)
	}

	rec, err := st.GetByName(context.Background(), "Artemis")
	if err != nil {
		t.Fatalf("renamed record missing: %v", err)
	}
	if rec.Risk != "high" {
		t.Errorf("record = %+v", rec)
	}
}

func TestUpdateProjectErrors(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Apollo")

	resp, raw := doJSON(t, app, http.MethodPut, "/projects", map[string]any{
		"projectName": "Apollo",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing data status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project name and updated data are required" {
		t.Errorf("error = %q", errorBody(t, raw))
	}

	resp, raw = doJSON(t, app, http.MethodPut, "/projects", map[string]any{
		"projectName": "Nobody",
		"updatedData": map[string]any{"risk": "high"},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing project status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project not found" {
		t.Errorf("error = %q", errorBody(t, raw))
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/projects", map[string]any{
		"projectName": "Apollo",
		"updatedData": map[string]any{"nope": "x"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field status = %d", resp.StatusCode)
	}
}

func TestDeleteProject(t *testing.T) {
	app, st := newTestApp(t)
	seed(t, st, "Apollo")

	resp, raw := doJSON(t, app, http.MethodDelete, "/projects", map[string]any{
		"projectName": "Apollo",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var body map[string]string
	_ = json.Unmarshal(raw, &body)
	if body["message"] != "Project deleted successfully" {
		t.Errorf("body = %s", raw)
	}

	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("count after delete = %d", n)
	}
}

func TestDeleteProjectErrors(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodDelete, "/projects", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project name is required" {
		t.Errorf("error = %q", errorBody(t, raw))
	}

	resp, raw = doJSON(t, app, http.MethodDelete, "/projects", map[string]any{
		"projectName": "Nobody",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing project status = %d", resp.StatusCode)
	}
	if errorBody(t, raw) != "Project not found" {
		t.Errorf("error = %q", errorBody(t, raw))
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	app, _ := newTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/projects/search?q=apollo", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	hits, ok := body["hits"].([]any)
	if !ok || len(hits) != 0 {
		t.Errorf("body = %s", raw)
	}
}
