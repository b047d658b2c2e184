package engine

import (
	"fmt"
	"log"
)

// ============================================================================
// EXECUTOR — One full dashboard pass
// ============================================================================
// Entry point: Explore(view, selection, opts...)
//
// Pipeline:
//   1. Normalize the selection against the view's columns
//   2. Apply filters → SubView
//   3. Preview + descriptive statistics
//   4. Correlation matrix (table + heatmap)
//   5. Distribution, pairwise and box charts
//   6. Text summary
//   7. Return Report
//
// Every user interaction re-runs the whole pipeline. Nothing is cached here;
// the observation table itself is loaded once by the caller.
// ============================================================================

// Explore runs one pass of the dashboard pipeline and returns a render-ready Report.
func Explore(view RecordView, sel Selection, opts ...Option) (*Report, error) {
	if view == nil {
		return nil, fmt.Errorf("explore: nil view")
	}
	cfg := applyOptions(opts)
	sel = normalizeSelection(sel, view, cfg)

	// 1. Filter → SubView (zero-copy)
	filtered := ApplyFilters(view, sel.Filters)
	log.Printf("🔧 irisdash: %d rows after filtering (from %d), %d ranges, categories=%v",
		filtered.Len(), view.Len(), len(sel.Filters.Ranges), sel.Filters.Dimensions[cfg.GroupDimension])

	report := &Report{
		TotalRows:    view.Len(),
		FilteredRows: filtered.Len(),
		View:         filtered,
	}

	// 2. Statistics
	report.Preview = buildPreviewTable(filtered, cfg.PreviewRows, cfg)
	report.Stats = buildStatsTable(Describe(filtered, view.MeasureKeys()), cfg)

	// 3. Correlation over every numeric column
	if sel.ShowCorrelation {
		report.Correlation = Correlate(filtered, view.MeasureKeys())
		report.CorrTable = buildCorrelationTable(report.Correlation, cfg)
		report.Heatmap = buildHeatmap(report.Correlation, cfg)
	}

	// 4. Charts
	for _, key := range sel.DistFeatures {
		report.Distributions = append(report.Distributions, buildHistogram(filtered, key, sel.DistMode, cfg))
	}
	if sel.PairX != "" && sel.PairY != "" {
		report.Pair = buildPairChart(filtered, sel.PairX, sel.PairY, sel.PairMode, sel.PairKind, cfg)
	}
	for _, key := range sel.BoxFeatures {
		report.Boxes = append(report.Boxes, buildBoxPlot(filtered, key, sel.BoxMode, cfg))
	}

	report.Text = buildText(filtered, report.Correlation, cfg)

	log.Printf("📊 irisdash: built %d charts", len(report.Charts()))
	return report, nil
}

// ============================================================================
// SELECTION NORMALIZATION
// ============================================================================

// NormalizeSelection drops unknown or non-plottable keys and fills default modes.
func NormalizeSelection(sel Selection, view RecordView, opts ...Option) Selection {
	return normalizeSelection(sel, view, applyOptions(opts))
}

func normalizeSelection(sel Selection, view RecordView, cfg *config) Selection {
	filterable := toSet(FilterKeys(view))
	plottable := PlotKeys(view, WithLabelMeasure(cfg.LabelMeasure))
	plotSet := toSet(plottable)

	ranges := make([]RangeFilter, 0, len(sel.Filters.Ranges))
	for _, r := range sel.Filters.Ranges {
		if filterable[r.Key] {
			ranges = append(ranges, r)
		}
	}
	sel.Filters.Ranges = ranges

	if len(sel.Filters.Dimensions) > 0 {
		dims := toSet(view.DimensionKeys())
		kept := make(map[string][]string, len(sel.Filters.Dimensions))
		for dim, vals := range sel.Filters.Dimensions {
			if dims[dim] && len(vals) > 0 {
				kept[dim] = vals
			}
		}
		sel.Filters.Dimensions = kept
	}

	sel.DistFeatures = keepKnown(sel.DistFeatures, plotSet)
	sel.BoxFeatures = keepKnown(sel.BoxFeatures, plotSet)
	if !plotSet[sel.PairX] {
		sel.PairX = ""
	}
	if !plotSet[sel.PairY] {
		sel.PairY = ""
	}

	sel.DistMode = defaultMode(sel.DistMode)
	sel.PairMode = defaultMode(sel.PairMode)
	sel.BoxMode = defaultMode(sel.BoxMode)
	if sel.PairKind != KindLine {
		sel.PairKind = KindScatter
	}
	return sel
}

// FilterKeys lists the columns a range filter may target: every numeric
// measure, including the class label.
func FilterKeys(view RecordView) []string {
	return view.MeasureKeys()
}

// PlotKeys lists the columns that may be used as chart data axes: numeric
// measures minus the class label.
func PlotKeys(view RecordView, opts ...Option) []string {
	cfg := applyOptions(opts)
	keys := make([]string, 0, len(view.MeasureKeys()))
	for _, k := range view.MeasureKeys() {
		if k != cfg.LabelMeasure {
			keys = append(keys, k)
		}
	}
	return keys
}

func defaultMode(mode string) string {
	if mode == ModeCombined {
		return ModeCombined
	}
	return ModeGrouped
}

func keepKnown(keys []string, known map[string]bool) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if known[k] && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
