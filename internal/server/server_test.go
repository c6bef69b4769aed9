package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TobiSchelling/SectionTrends/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestServer(t *testing.T, db *database.DB) *Server {
	t.Helper()
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func insertRun(t *testing.T, db *database.DB, section string, chart *string) int64 {
	t.Helper()
	id, err := db.InsertRun(database.NewRun{
		Section:        section,
		BeginDate:      "20240101",
		EndDate:        "20240131",
		Periodicity:    "monthly",
		Source:         "Article Search API",
		ArticleCount:   12,
		KeywordChart:   chart,
		ReportMarkdown: "# Technology\n\n| Rank | Keyword |\n| --- | --- |\n| 1 | Artificial Intelligence |\n",
		Keywords:       []database.RunKeyword{{Rank: 1, Keyword: "Artificial Intelligence", Count: 12}},
		Periods:        []database.RunPeriod{{Label: "2024-01", Count: 12}},
	})
	if err != nil {
		t.Fatalf("failed to insert run: %v", err)
	}
	return id
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexRouteEmpty(t *testing.T) {
	srv := newTestServer(t, openTestDB(t))

	rec := get(srv, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No runs recorded yet") {
		t.Error("expected empty-state message in response body")
	}
}

func TestIndexRouteListsRuns(t *testing.T) {
	db := openTestDB(t)
	insertRun(t, db, "technology", nil)
	insertRun(t, db, "world", nil)
	srv := newTestServer(t, db)

	body := get(srv, "/").Body.String()
	for _, want := range []string{"technology", "world", "Jan 01 - Jan 31, 2024", "technology (1)"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in index", want)
		}
	}

	body = get(srv, "/?section=world").Body.String()
	if !strings.Contains(body, "Runs for world") {
		t.Error("expected filtered heading")
	}
	if strings.Contains(body, `<a href="/run/1">technology</a>`) {
		t.Error("expected technology run filtered out")
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	srv := newTestServer(t, openTestDB(t))
	if rec := get(srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRunRoute(t *testing.T) {
	db := openTestDB(t)
	id := insertRun(t, db, "technology", nil)
	srv := newTestServer(t, db)

	rec := get(srv, fmt.Sprintf("/run/%d", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Artificial Intelligence") {
		t.Error("expected keyword in run page")
	}
	if !strings.Contains(body, "<table>") {
		t.Error("expected markdown table rendered as HTML")
	}
	if strings.Contains(body, "/charts/") {
		t.Error("expected no chart images without chart paths")
	}
}

func TestRunRouteMissing(t *testing.T) {
	srv := newTestServer(t, openTestDB(t))
	if rec := get(srv, "/run/99"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := get(srv, "/run/abc"); rec.Code != http.StatusFound {
		t.Errorf("expected redirect for bad ID, got %d", rec.Code)
	}
}

func TestChartRoute(t *testing.T) {
	db := openTestDB(t)
	chartPath := filepath.Join(t.TempDir(), "keywords.png")
	png := []byte("\x89PNG\r\n\x1a\nfake")
	if err := os.WriteFile(chartPath, png, 0o644); err != nil {
		t.Fatal(err)
	}
	id := insertRun(t, db, "technology", &chartPath)
	srv := newTestServer(t, db)

	rec := get(srv, fmt.Sprintf("/charts/%d/keywords", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != string(png) {
		t.Error("expected chart bytes")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}

	if rec := get(srv, fmt.Sprintf("/charts/%d/timeline", id)); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing timeline, got %d", rec.Code)
	}
	if rec := get(srv, fmt.Sprintf("/charts/%d/other", id)); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown chart, got %d", rec.Code)
	}
}

func TestDeleteRunRoute(t *testing.T) {
	db := openTestDB(t)
	id := insertRun(t, db, "technology", nil)
	srv := newTestServer(t, db)

	// GET does not delete
	rec := get(srv, fmt.Sprintf("/run/%d/delete", id))
	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	if run, _ := db.GetRun(id); run == nil {
		t.Fatal("expected run to survive GET")
	}

	req := httptest.NewRequest("POST", fmt.Sprintf("/run/%d/delete", id), nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if run, _ := db.GetRun(id); run != nil {
		t.Error("expected run deleted")
	}
}

func TestStaticFiles(t *testing.T) {
	srv := newTestServer(t, openTestDB(t))
	rec := get(srv, "/static/style.css")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
