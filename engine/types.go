package engine

import "math"

// ============================================================================
// IRISDASH ENGINE TYPES — Observation tables, selections, render-ready output
// ============================================================================
// The engine knows nothing about HTTP or images. It reads rows through
// RecordView, narrows them with Filters, and produces tables and ChartConfigs
// that the render and dashboard packages turn into pixels.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// FILTERS — Transient user constraints
// ============================================================================

// RangeFilter keeps rows whose measure lies in the closed interval [Min, Max].
type RangeFilter struct {
	Key string  `json:"key"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the closed interval.
func (r RangeFilter) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Filters define which records to include.
// Ranges are AND-combined. Dimensions: OR within a dimension, AND across
// dimensions. An empty value list for a dimension applies no constraint.
type Filters struct {
	Ranges     []RangeFilter       `json:"ranges,omitempty"`
	Dimensions map[string][]string `json:"dimensions,omitempty"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if len(f.Ranges) > 0 {
		return false
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// SELECTION — Everything a user picked in one interaction
// ============================================================================

// Display modes shared by the chart builders.
const (
	ModeGrouped  = "grouped"  // one layer per category present
	ModeCombined = "combined" // one layer over all rows
)

// Pair chart kinds.
const (
	KindScatter = "scatter"
	KindLine    = "line"
)

// Chart types produced by the builders.
const (
	ChartHistogram = "histogram"
	ChartScatter   = "scatter"
	ChartLine      = "line"
	ChartBox       = "box"
	ChartHeatmap   = "heatmap"
)

// Selection is the full widget state of one dashboard pass.
type Selection struct {
	Filters Filters `json:"filters"`

	DistFeatures []string `json:"distFeatures,omitempty"`
	DistMode     string   `json:"distMode"`

	PairX    string `json:"pairX,omitempty"`
	PairY    string `json:"pairY,omitempty"`
	PairMode string `json:"pairMode"`
	PairKind string `json:"pairKind"`

	BoxFeatures []string `json:"boxFeatures,omitempty"`
	BoxMode     string   `json:"boxMode"`

	ShowCorrelation bool `json:"showCorrelation"`
}

// ============================================================================
// REPORT — Render-ready output of one pass
// ============================================================================

// Report is the engine's output for one Selection.
type Report struct {
	TotalRows    int `json:"totalRows"`
	FilteredRows int `json:"filteredRows"`

	Preview     *TableData         `json:"preview"`
	Stats       *TableData         `json:"stats"`
	Correlation *CorrelationMatrix `json:"-"`
	CorrTable   *TableData         `json:"correlation,omitempty"`

	Distributions []*ChartConfig `json:"distributions,omitempty"`
	Pair          *ChartConfig   `json:"pair,omitempty"`
	Boxes         []*ChartConfig `json:"boxes,omitempty"`
	Heatmap       *ChartConfig   `json:"heatmap,omitempty"`

	Text *TextData `json:"text"`

	// View is the filtered table the report was computed from.
	View RecordView `json:"-"`
}

// Charts returns every chart of the report in page order.
func (r *Report) Charts() []*ChartConfig {
	var out []*ChartConfig
	out = append(out, r.Distributions...)
	if r.Pair != nil {
		out = append(out, r.Pair)
	}
	out = append(out, r.Boxes...)
	if r.Heatmap != nil {
		out = append(out, r.Heatmap)
	}
	return out
}

// ============================================================================
// GROUP — Rows sharing one dimension value
// ============================================================================

// Group represents the rows that share a dimension value.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// STATISTICS TYPES
// ============================================================================

// ColumnStats is the descriptive summary of one numeric column.
type ColumnStats struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`

	// Histogram bin edges, shared by every series (len = bins+1).
	BinEdges []float64 `json:"binEdges,omitempty"`

	// Heatmap payload.
	Matrix *CorrelationMatrix `json:"-"`
}

// ChartSeries represents one visual layer of a chart.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points,omitempty"` // scatter/line data or KDE curve
	Counts []float64    `json:"counts,omitempty"` // histogram bin counts
	Values []float64    `json:"values,omitempty"` // raw values (box plots)
	Color  string       `json:"color,omitempty"`
	Alpha  float64      `json:"alpha,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsEmpty reports whether the chart has nothing to draw.
func (c *ChartConfig) IsEmpty() bool {
	if c == nil {
		return true
	}
	if c.ChartType == ChartHeatmap {
		return c.Matrix == nil || len(c.Matrix.Keys) == 0
	}
	for _, s := range c.Series {
		if len(s.Points) > 0 || len(s.Values) > 0 {
			return false
		}
		for _, n := range s.Counts {
			if n > 0 {
				return false
			}
		}
	}
	return true
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides a footer line for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a short headline plus supporting lines.
type TextData struct {
	Value   string   `json:"value"`
	Count   int      `json:"count"`
	Details []string `json:"details,omitempty"`
}

// nan is shorthand used wherever a statistic is undefined.
var nan = math.NaN()
