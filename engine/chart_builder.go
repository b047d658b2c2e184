package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a view + user selections
// ============================================================================
// Builders compute everything a renderer needs (bins, counts, curves,
// aggregated lines, raw box values). Renderers only draw.
// ============================================================================

// Set2 palette, one color per category layer.
var defaultColors = []string{
	"#66C2A5", "#FC8D62", "#8DA0CB", "#E78AC3",
	"#A6D854", "#FFD92F", "#E5C494", "#B3B3B3",
}

// combinedColor is used when all rows are drawn as a single layer.
const combinedColor = "#4C72B0"

// groupAlpha is the fill opacity of overlapping per-category layers.
const groupAlpha = 0.7

// layer is one named slice of the view that becomes one series.
type layer struct {
	name  string
	view  RecordView
	color string
}

// layers splits a view per category in grouped mode, or returns it whole.
func layers(view RecordView, mode string, cfg *config) []layer {
	if mode != ModeGrouped || cfg.GroupDimension == "" {
		return []layer{{name: "All", view: view, color: combinedColor}}
	}
	groups := GroupBy(view, cfg.GroupDimension)
	out := make([]layer, 0, len(groups))
	for i, g := range groups {
		out = append(out, layer{
			name:  g.Label,
			view:  g.View,
			color: defaultColors[i%len(defaultColors)],
		})
	}
	return out
}

// ============================================================================
// DISTRIBUTION — histogram + density curve
// ============================================================================

// BuildHistogram builds a histogram of one measure with a density curve per
// layer. All layers share the same bin edges.
func BuildHistogram(view RecordView, key, mode string, opts ...Option) *ChartConfig {
	return buildHistogram(view, key, mode, applyOptions(opts))
}

func buildHistogram(view RecordView, key, mode string, cfg *config) *ChartConfig {
	label := cfg.label(key)
	chart := &ChartConfig{
		ChartType:  ChartHistogram,
		Title:      fmt.Sprintf("Distribution of %s", label),
		XAxis:      label,
		YAxis:      "Count",
		ShowLegend: mode == ModeGrouped,
		ShowGrid:   true,
	}
	if view.Len() == 0 {
		return chart
	}

	all := MeasureValues(view, key)
	chart.BinEdges = BinEdges(all, cfg.Bins)
	width := chart.BinEdges[1] - chart.BinEdges[0]

	for _, l := range layers(view, mode, cfg) {
		values := MeasureValues(l.view, key)
		s := ChartSeries{
			Name:   l.name,
			Counts: binCounts(values, chart.BinEdges),
			Points: densityCurve(values, chart.BinEdges[0], chart.BinEdges[len(chart.BinEdges)-1], width, cfg.KDEPoints),
			Color:  l.color,
		}
		if mode == ModeGrouped {
			s.Alpha = groupAlpha
		}
		chart.Series = append(chart.Series, s)
	}
	chart.Colors = seriesColors(chart.Series)
	return chart
}

// BinEdges returns histogram bin edges over values. With bins <= 0 the count
// follows the "auto" rule: the narrower of the Sturges and Freedman–Diaconis
// widths (Sturges alone when the IQR is zero).
func BinEdges(values []float64, bins int) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
		if bins <= 0 {
			bins = 1
		}
	}

	if bins <= 0 {
		n := float64(len(values))
		span := hi - lo
		width := span / (math.Log2(n) + 1)

		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		iqr := Quantile(sorted, 0.75) - Quantile(sorted, 0.25)
		if fd := 2 * iqr * math.Pow(n, -1.0/3.0); fd > 0 && fd < width {
			width = fd
		}
		bins = int(math.Ceil(span / width))
		if bins < 1 {
			bins = 1
		}
	}

	edges := make([]float64, bins+1)
	step := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi
	return edges
}

// binCounts counts values per bin. The last bin is closed on the right.
func binCounts(values, edges []float64) []float64 {
	bins := len(edges) - 1
	if bins < 1 {
		return nil
	}
	counts := make([]float64, bins)
	lo, hi := edges[0], edges[bins]
	width := (hi - lo) / float64(bins)
	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts
}

// densityCurve evaluates a Gaussian kernel density estimate with Scott's
// bandwidth on [lo, hi], scaled so it overlays a count histogram.
// Fewer than two values or zero spread yields no curve.
func densityCurve(values []float64, lo, hi, binWidth float64, points int) []ChartPoint {
	n := len(values)
	if n < 2 || points < 2 {
		return nil
	}
	sd := stat.StdDev(values, nil)
	if !(sd > 0) {
		return nil
	}
	bw := sd * math.Pow(float64(n), -0.2)
	// Σ pdf × width equals density × n × width, i.e. the count scale.
	scale := binWidth

	kernels := make([]distuv.Normal, n)
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	curve := make([]ChartPoint, points)
	step := (hi - lo) / float64(points-1)
	for i := range curve {
		x := lo + float64(i)*step
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		curve[i] = ChartPoint{X: x, Y: sum * scale}
	}
	return curve
}

// ============================================================================
// PAIRWISE — scatter or line
// ============================================================================

// BuildPairChart plots y against x. Line charts average y over identical x
// values and sort by x.
func BuildPairChart(view RecordView, x, y, mode, kind string, opts ...Option) *ChartConfig {
	return buildPairChart(view, x, y, mode, kind, applyOptions(opts))
}

func buildPairChart(view RecordView, x, y, mode, kind string, cfg *config) *ChartConfig {
	chartType := ChartScatter
	if kind == KindLine {
		chartType = ChartLine
	}
	xl, yl := cfg.label(x), cfg.label(y)
	chart := &ChartConfig{
		ChartType:  chartType,
		Title:      fmt.Sprintf("%s vs %s", xl, yl),
		XAxis:      xl,
		YAxis:      yl,
		ShowLegend: mode == ModeGrouped,
		ShowGrid:   true,
	}
	if view.Len() == 0 {
		return chart
	}

	for _, l := range layers(view, mode, cfg) {
		pts := make([]ChartPoint, l.view.Len())
		for i := range pts {
			pts[i] = ChartPoint{X: l.view.Measure(i, x), Y: l.view.Measure(i, y)}
		}
		if chartType == ChartLine {
			pts = meanByX(pts)
		}
		chart.Series = append(chart.Series, ChartSeries{
			Name:   l.name,
			Points: pts,
			Color:  l.color,
		})
	}
	chart.Colors = seriesColors(chart.Series)
	return chart
}

// meanByX collapses points sharing an x value to their mean y, sorted by x.
func meanByX(pts []ChartPoint) []ChartPoint {
	type acc struct {
		sum float64
		n   int
	}
	byX := make(map[float64]*acc)
	xs := make([]float64, 0, len(pts))
	for _, p := range pts {
		a, ok := byX[p.X]
		if !ok {
			a = &acc{}
			byX[p.X] = a
			xs = append(xs, p.X)
		}
		a.sum += p.Y
		a.n++
	}
	sort.Float64s(xs)
	out := make([]ChartPoint, len(xs))
	for i, x := range xs {
		a := byX[x]
		out[i] = ChartPoint{X: x, Y: a.sum / float64(a.n)}
	}
	return out
}

// ============================================================================
// BOX PLOT
// ============================================================================

// BuildBoxPlot builds one box per category present (grouped) or one box
// over all rows (combined).
func BuildBoxPlot(view RecordView, key, mode string, opts ...Option) *ChartConfig {
	return buildBoxPlot(view, key, mode, applyOptions(opts))
}

func buildBoxPlot(view RecordView, key, mode string, cfg *config) *ChartConfig {
	label := cfg.label(key)
	xAxis := "All"
	if mode == ModeGrouped {
		xAxis = cfg.label(cfg.GroupDimension)
	}
	chart := &ChartConfig{
		ChartType: ChartBox,
		Title:     fmt.Sprintf("Box plot of %s", label),
		XAxis:     xAxis,
		YAxis:     label,
		ShowGrid:  true,
	}
	if view.Len() == 0 {
		return chart
	}
	for _, l := range layers(view, mode, cfg) {
		chart.Series = append(chart.Series, ChartSeries{
			Name:   l.name,
			Values: MeasureValues(l.view, key),
			Color:  l.color,
		})
	}
	chart.Colors = seriesColors(chart.Series)
	return chart
}

// BoxStats summarizes values the way a box plot draws them: quartiles,
// whiskers at the furthest points within 1.5·IQR, and outliers beyond.
type BoxStats struct {
	Q1, Median, Q3 float64
	Low, High      float64
	Outliers       []float64
}

// ComputeBoxStats derives box plot geometry from raw values.
func ComputeBoxStats(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{Q1: nan, Median: nan, Q3: nan, Low: nan, High: nan}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	bs := BoxStats{
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
	}
	iqr := bs.Q3 - bs.Q1
	loFence, hiFence := bs.Q1-1.5*iqr, bs.Q3+1.5*iqr
	bs.Low, bs.High = math.Inf(1), math.Inf(-1)
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			bs.Outliers = append(bs.Outliers, v)
			continue
		}
		bs.Low = math.Min(bs.Low, v)
		bs.High = math.Max(bs.High, v)
	}
	return bs
}

// ============================================================================
// HEATMAP
// ============================================================================

// BuildHeatmap wraps a correlation matrix as a chart.
func BuildHeatmap(cm *CorrelationMatrix, opts ...Option) *ChartConfig {
	return buildHeatmap(cm, applyOptions(opts))
}

func buildHeatmap(cm *CorrelationMatrix, cfg *config) *ChartConfig {
	chart := &ChartConfig{
		ChartType: ChartHeatmap,
		Title:     "Feature correlations",
		Matrix:    cm,
	}
	if cm != nil {
		for _, k := range cm.Keys {
			chart.Series = append(chart.Series, ChartSeries{Name: cfg.label(k)})
		}
	}
	return chart
}

// ============================================================================
// HELPERS
// ============================================================================

func seriesColors(series []ChartSeries) []string {
	colors := make([]string, len(series))
	for i, s := range series {
		colors[i] = s.Color
	}
	return colors
}
