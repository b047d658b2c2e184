// Package dashboard serves the explorer and overview pages over HTTP.
package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/spektr-org/irisdash/config"
	"github.com/spektr-org/irisdash/dataset"
	"github.com/spektr-org/irisdash/engine"
	"github.com/spektr-org/irisdash/helpers"
)

// ============================================================================
// SERVER — One request = one full pipeline pass
// ============================================================================
// Routes:
//   GET /            explorer (filters, charts, correlation)
//   GET /overview    full-table statistics and per-feature distributions
//   GET /export.csv  filtered rows as CSV
//   GET /api/report  Report as JSON
//   GET /healthz     liveness
//
// The dataset is shared read-only; every request builds its own views.
// ============================================================================

// Server holds the loaded dataset and presentation settings.
type Server struct {
	cfg    config.Config
	ds     *dataset.Dataset
	labels map[string]string
	opts   []engine.Option
	mux    *http.ServeMux
}

// New creates a Server over ds.
func New(cfg config.Config, ds *dataset.Dataset) (*Server, error) {
	if ds == nil {
		return nil, fmt.Errorf("dashboard: nil dataset")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sch := ds.Schema()
	labels := sch.Labels()

	s := &Server{
		cfg:    cfg,
		ds:     ds,
		labels: labels,
		opts: []engine.Option{
			engine.WithPreviewRows(cfg.PreviewRows),
			engine.WithBins(cfg.Bins),
			engine.WithKDEPoints(cfg.KDEPoints),
			engine.WithGroupDimension(dataset.Species),
			engine.WithLabelMeasure(sch.LabelMeasure()),
			engine.WithLabels(labels),
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleExplore)
	s.mux.HandleFunc("/overview", s.handleOverview)
	s.mux.HandleFunc("/export.csv", s.handleExport)
	s.mux.HandleFunc("/api/report", s.handleReport)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	return s, nil
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler { return s.mux }

// HTTPServer returns an http.Server bound to the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowGet(w, r) {
		return
	}
	runID := newRunID()
	view := s.ds.View()

	sel := parseSelection(r.URL.Query(), view, s.opts...)
	report, err := engine.Explore(view, sel, s.opts...)
	if err != nil {
		s.fail(w, runID, err)
		return
	}
	log.Printf("🌐 [%s] explore: %d/%d rows, %d charts", runID, report.FilteredRows, report.TotalRows, len(report.Charts()))

	data := s.page(report, runID)
	data.Nav = "explore"
	data.Subtitle = "The Iris dataset describes three iris species: Setosa, Versicolor and Virginica."
	data.Sidebar = buildSidebar(sel, view, s.labels, s.opts...)
	data.ExportURL = "/export.csv?" + r.URL.RawQuery
	data.Correlation = report.CorrTable
	s.write(w, runID, data)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	runID := newRunID()
	view := s.ds.View()

	sel := engine.Selection{
		DistFeatures: engine.PlotKeys(view, s.opts...),
		DistMode:     engine.ModeGrouped,
	}
	report, err := engine.Explore(view, sel, s.opts...)
	if err != nil {
		s.fail(w, runID, err)
		return
	}
	log.Printf("🌐 [%s] overview: %d charts", runID, len(report.Charts()))

	data := s.page(report, runID)
	data.Nav = "overview"
	data.Subtitle = "Descriptive statistics of the full table and the distribution of each feature by class."
	data.Preview = nil
	s.write(w, runID, data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	runID := newRunID()
	view := s.ds.View()

	sel := parseSelection(r.URL.Query(), view, s.opts...)
	filtered := engine.ApplyFilters(view, sel.Filters)

	var buf bytes.Buffer
	if err := helpers.WriteCSV(&buf, filtered, s.labels, dataset.Target); err != nil {
		s.fail(w, runID, err)
		return
	}
	log.Printf("📋 [%s] export: %d rows", runID, filtered.Len())

	name := helpers.ExportFilename(s.ds.Schema().Name, filtered.Len())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	runID := newRunID()
	view := s.ds.View()

	sel := parseSelection(r.URL.Query(), view, s.opts...)
	report, err := engine.Explore(view, sel, s.opts...)
	if err != nil {
		s.fail(w, runID, err)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(struct {
		RunID     string           `json:"runId"`
		Selection engine.Selection `json:"selection"`
		*engine.Report
	}{runID, sel, report}); err != nil {
		s.fail(w, runID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// ============================================================================
// HELPERS
// ============================================================================

// page renders every chart of report into a view model.
func (s *Server) page(report *engine.Report, runID string) *pageData {
	width, height := s.cfg.ChartWidth, s.cfg.ChartHeight
	data := &pageData{
		Title:   s.cfg.Title,
		RunID:   runID,
		Summary: fmt.Sprintf("%d of %d rows match the current filters", report.FilteredRows, report.TotalRows),
		Text:    report.Text,
		Preview: report.Preview,
		Stats:   report.Stats,
	}
	for _, c := range report.Distributions {
		data.Distributions = append(data.Distributions, renderChart(c, width, height, runID))
	}
	if report.Pair != nil {
		cv := renderChart(report.Pair, width, height, runID)
		data.Pair = &cv
	}
	for _, c := range report.Boxes {
		cv := renderChart(c, width, height, runID)
		cv.Caption = boxCaption(c)
		data.Boxes = append(data.Boxes, cv)
	}
	if report.Heatmap != nil {
		cv := renderChart(report.Heatmap, width, width, runID)
		data.Heatmap = &cv
	}
	return data
}

func (s *Server) write(w http.ResponseWriter, runID string, data *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.fail(w, runID, fmt.Errorf("render page: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, runID string, err error) {
	log.Printf("❌ [%s] %v", runID, err)
	http.Error(w, "internal error (run "+runID+")", http.StatusInternalServerError)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func newRunID() string {
	return uuid.NewString()[:8]
}
