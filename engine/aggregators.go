package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// AGGREGATORS — Grouping and Descriptive Statistics via RecordView
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// ============================================================================

// GroupBy splits a view by a dimension. Groups appear in order of first
// appearance, so a category that was filtered away simply has no group.
func GroupBy(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// UniqueValues returns distinct values for a dimension across a view.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// ============================================================================
// DESCRIPTIVE STATISTICS
// ============================================================================

// Describe computes count, mean, std, min, quartiles, and max for each key.
// Std is the sample standard deviation. Quartiles interpolate linearly
// between order statistics. Undefined statistics are NaN.
func Describe(view RecordView, keys []string) []ColumnStats {
	out := make([]ColumnStats, 0, len(keys))
	for _, key := range keys {
		out = append(out, describeColumn(key, MeasureValues(view, key)))
	}
	return out
}

func describeColumn(key string, values []float64) ColumnStats {
	cs := ColumnStats{
		Key:   key,
		Count: len(values),
		Mean:  nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}
	if len(values) == 0 {
		return cs
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		cs.Std = stat.StdDev(sorted, nil)
	}
	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	cs.Q25 = Quantile(sorted, 0.25)
	cs.Q50 = Quantile(sorted, 0.50)
	cs.Q75 = Quantile(sorted, 0.75)
	return cs
}

// Quantile returns the p-quantile of ascending-sorted data, interpolating
// linearly between the two nearest ranks.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return nan
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatFloat renders a statistic for tables. NaN prints as "NaN".
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

// FormatValue renders a raw measurement, trimming trailing zeros.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.1f", v)
	}
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a readable label for a column key.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	s := strings.ReplaceAll(dimension, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
