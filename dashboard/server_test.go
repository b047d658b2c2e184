package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/spektr-org/irisdash/config"
	"github.com/spektr-org/irisdash/dataset"
	"github.com/spektr-org/irisdash/engine"
)

// ============================================================================
// DASHBOARD TESTS
// ============================================================================

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds, err := dataset.Load()
	if err != nil {
		t.Fatalf("dataset.Load failed: %v", err)
	}
	cfg := config.Default()
	cfg.ChartWidth, cfg.ChartHeight = 320, 240
	srv, err := New(cfg, ds)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestExplorePageDefaults(t *testing.T) {
	rec := get(t, newTestServer(t), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Iris Dataset Explorer",
		"Showing 5 of 150 rows",
		"Descriptive statistics",
		"Correlations between features",
		"data:image/png;base64,",
		`name="feature" value="target"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	// target is filterable but never a chart axis
	if strings.Contains(body, `name="dist_feature" value="target"`) {
		t.Error("target offered as a distribution feature")
	}
}

func TestExplorePageFilters(t *testing.T) {
	q := url.Values{
		"feature":          {"sepal_length"},
		"min_sepal_length": {"5.0"},
		"max_sepal_length": {"6.5"},
		"dist_feature":     {"petal_length"},
		"box_feature":      {"petal_width"},
	}
	rec := get(t, newTestServer(t), "/?"+q.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "98 of 150 rows match") {
		t.Error("expected 98 rows in [5.0, 6.5]")
	}
	if !strings.Contains(body, "Median: ") {
		t.Error("box plot caption missing")
	}
}

func TestExplorePageEmptyResult(t *testing.T) {
	q := url.Values{
		"feature":          {"sepal_length"},
		"min_sepal_length": {"7.0"},
		"max_sepal_length": {"5.0"},
		"dist_feature":     {"sepal_length"},
	}
	rec := get(t, newTestServer(t), "/?"+q.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, noDataNote) {
		t.Error("empty charts should show the no-data note")
	}
	if !strings.Contains(body, "0 of 150 rows match") {
		t.Error("expected zero matching rows")
	}
}

func TestOverviewPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if got := strings.Count(body, "data:image/png;base64,"); got != 4 {
		t.Errorf("overview has %d charts, want one per feature", got)
	}
	if strings.Contains(body, "Data preview") {
		t.Error("overview should not show the preview table")
	}
}

func TestExportCSV(t *testing.T) {
	q := url.Values{"species": {"Setosa"}, "feature": {"sepal_length"}, "min_sepal_length": {"5.0"}, "max_sepal_length": {"6.5"}}
	rec := get(t, newTestServer(t), "/export.csv?"+q.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "iris_filtered_30.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(rows) != 31 {
		t.Fatalf("got %d lines, want header + 30", len(rows))
	}
	if rows[0][0] != "sepal length (cm)" || rows[0][5] != "species" {
		t.Errorf("header = %v", rows[0])
	}
	for _, row := range rows[1:] {
		if row[4] != "0" || row[5] != "Setosa" {
			t.Fatalf("unexpected row %v", row)
		}
	}
}

func TestReportJSON(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/report?feature=petal_length&min_petal_length=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		RunID        string           `json:"runId"`
		Selection    engine.Selection `json:"selection"`
		FilteredRows int              `json:"filteredRows"`
		TotalRows    int              `json:"totalRows"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.FilteredRows != 100 || payload.TotalRows != 150 {
		t.Errorf("rows = %d/%d, want 100/150", payload.FilteredRows, payload.TotalRows)
	}
	if payload.RunID == "" {
		t.Error("missing run id")
	}
	if r := payload.Selection.Filters.Ranges; len(r) != 1 || r[0].Max != 6.9 {
		t.Errorf("range not clamped to column bounds: %+v", r)
	}
}

func TestHealthAndRouting(t *testing.T) {
	srv := newTestServer(t)
	if rec := get(t, srv, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d", rec.Code)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST = %d", rec.Code)
	}
}

func TestParseSelectionDefaults(t *testing.T) {
	ds, err := dataset.Load()
	if err != nil {
		t.Fatalf("dataset.Load failed: %v", err)
	}
	q := url.Values{
		"min_sepal_length": {"5.5"}, // ignored: feature not ticked
		"feature":          {"petal_width", "bogus"},
		"max_petal_width":  {"NaN"},
		"species":          {""},
	}
	sel := parseSelection(q, ds.View())

	if len(sel.Filters.Ranges) != 1 {
		t.Fatalf("ranges = %+v", sel.Filters.Ranges)
	}
	r := sel.Filters.Ranges[0]
	if r.Key != dataset.PetalWidth || r.Min != 0.1 || r.Max != 2.5 {
		t.Errorf("expected full petal width bounds, got %+v", r)
	}
	if sel.Filters.HasFilter(dataset.Species) {
		t.Error("blank species should not filter")
	}
	if sel.PairX != dataset.SepalLength || sel.PairY != dataset.SepalLength {
		t.Errorf("pair defaults = %q / %q", sel.PairX, sel.PairY)
	}
	if !sel.ShowCorrelation {
		t.Error("explorer always shows correlations")
	}
}
