// Package render draws engine chart configs as PNG images.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/irisdash/engine"
)

// ============================================================================
// RENDER — ChartConfig → PNG
// ============================================================================
// Histograms, box plots and heatmaps are drawn with gonum/plot; scatter and
// line charts with go-chart. Builders already computed every number, so the
// functions here only map series onto drawing primitives.
// ============================================================================

var (
	// ErrNoData is returned for charts with nothing to draw.
	ErrNoData = errors.New("render: no data")
	// ErrUnknownChart is returned for chart types without a renderer.
	ErrUnknownChart = errors.New("render: unknown chart type")
)

// dpi is the resolution gonum/plot rasterizes at; pixel sizes convert through it.
const dpi = 96

// PNG renders cfg as a width×height PNG image.
func PNG(cfg *engine.ChartConfig, width, height int) ([]byte, error) {
	if cfg.IsEmpty() {
		return nil, ErrNoData
	}
	switch cfg.ChartType {
	case engine.ChartHistogram:
		return histogramPNG(cfg, width, height)
	case engine.ChartBox:
		return boxPNG(cfg, width, height)
	case engine.ChartHeatmap:
		return heatmapPNG(cfg, width, height)
	case engine.ChartScatter, engine.ChartLine:
		return pairPNG(cfg, width, height)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, cfg.ChartType)
	}
}

// ============================================================================
// GONUM/PLOT CHARTS
// ============================================================================

func newPlot(cfg *engine.ChartConfig) *plot.Plot {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis
	if cfg.ShowGrid {
		p.Add(plotter.NewGrid())
	}
	if cfg.ShowLegend {
		p.Legend.Top = true
	}
	return p
}

func encode(p *plot.Plot, width, height int) ([]byte, error) {
	w := vg.Length(float64(width)/dpi) * vg.Inch
	h := vg.Length(float64(height)/dpi) * vg.Inch
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func histogramPNG(cfg *engine.ChartConfig, width, height int) ([]byte, error) {
	edges := cfg.BinEdges
	if len(edges) < 2 {
		return nil, ErrNoData
	}
	p := newPlot(cfg)

	for _, s := range cfg.Series {
		bins := make([]plotter.HistogramBin, len(s.Counts))
		for i, c := range s.Counts {
			bins[i] = plotter.HistogramBin{Min: edges[i], Max: edges[i+1], Weight: c}
		}
		hist := &plotter.Histogram{
			Bins:      bins,
			Width:     edges[1] - edges[0],
			FillColor: nrgba(s.Color, s.Alpha),
			LineStyle: plotter.DefaultLineStyle,
		}
		hist.LineStyle.Color = color.White
		p.Add(hist)

		if cfg.ShowLegend {
			p.Legend.Add(s.Name, hist)
		}
		if len(s.Points) == 0 {
			continue
		}
		line, err := plotter.NewLine(toXYs(s.Points))
		if err != nil {
			return nil, fmt.Errorf("render: density curve: %w", err)
		}
		line.LineStyle.Color = nrgba(s.Color, 1)
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}
	p.Y.Min = 0
	return encode(p, width, height)
}

func boxPNG(cfg *engine.ChartConfig, width, height int) ([]byte, error) {
	p := newPlot(cfg)
	boxWidth := vg.Points(40)

	names := make([]string, 0, len(cfg.Series))
	for i, s := range cfg.Series {
		if len(s.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(boxWidth, float64(len(names)), plotter.Values(s.Values))
		if err != nil {
			return nil, fmt.Errorf("render: box %d: %w", i, err)
		}
		box.FillColor = nrgba(s.Color, 1)
		p.Add(box)
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return nil, ErrNoData
	}
	p.NominalX(names...)
	return encode(p, width, height)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 of the
// matrix is drawn at the top.
type corrGrid struct {
	m *engine.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Keys), len(g.m.Keys) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(len(g.m.Keys)-1-r, c) }

func heatmapPNG(cfg *engine.ChartConfig, width, height int) ([]byte, error) {
	cm := cfg.Matrix
	n := len(cm.Keys)
	if n < 2 || cm.M == nil {
		return nil, ErrNoData
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	hm := plotter.NewHeatMap(corrGrid{m: cm}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 0xCC}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.Add(hm)

	labels := make([]string, n)
	reversed := make([]string, n)
	for i, s := range cfg.Series {
		labels[i] = s.Name
		reversed[n-1-i] = s.Name
	}
	p.NominalX(labels...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	return encode(p, width, height)
}

func toXYs(points []engine.ChartPoint) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

// ============================================================================
// GO-CHART CHARTS
// ============================================================================

func pairPNG(cfg *engine.ChartConfig, width, height int) ([]byte, error) {
	series := make([]chart.Series, 0, len(cfg.Series))
	xr, yr := span{lo: math.Inf(1), hi: math.Inf(-1)}, span{lo: math.Inf(1), hi: math.Inf(-1)}

	for _, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			xs[i], ys[i] = pt.X, pt.Y
			xr.add(pt.X)
			yr.add(pt.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pairStyle(cfg.ChartType, s),
		})
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}

	grid := chart.Style{StrokeColor: chartColor("#E5E5E5", 1), StrokeWidth: 1}
	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  cfg.XAxis,
			Range: xr.padded(),
		},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: yr.padded(),
		},
		Series: series,
	}
	if cfg.ShowGrid {
		ch.XAxis.GridMajorStyle = grid
		ch.YAxis.GridMajorStyle = grid
	}
	if cfg.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %s chart: %w", cfg.ChartType, err)
	}
	return buf.Bytes(), nil
}

// pairStyle draws dots only for scatter and a solid stroke for line charts.
func pairStyle(chartType string, s engine.ChartSeries) chart.Style {
	col := chartColor(s.Color, 1)
	if chartType == engine.ChartLine {
		return chart.Style{StrokeColor: col, StrokeWidth: 2}
	}
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    chartColor(s.Color, 0.8),
	}
}

// span tracks a data range. go-chart refuses zero-width ranges, so a single
// distinct value is widened by one unit.
type span struct{ lo, hi float64 }

func (s *span) add(v float64) {
	s.lo = math.Min(s.lo, v)
	s.hi = math.Max(s.hi, v)
}

func (s span) padded() *chart.ContinuousRange {
	if s.lo == s.hi {
		return &chart.ContinuousRange{Min: s.lo - 0.5, Max: s.hi + 0.5}
	}
	pad := (s.hi - s.lo) * 0.05
	return &chart.ContinuousRange{Min: s.lo - pad, Max: s.hi + pad}
}
