package engine

import (
	"math"
	"strings"
)

// ============================================================================
// FILTERS — Range + Category Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent), zero data copy, parent order
// kept, values untouched.
// ============================================================================

// ApplyFilters returns a view of records matching every range and category
// constraint. Ranges are closed intervals, AND-combined. Dimension values are
// OR-combined within a dimension and AND-combined across dimensions.
// Empty filter = no restriction (returns the input view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	if len(sets) == 0 && len(filters.Ranges) == 0 {
		return view
	}

	// Single pass: a record passes if it matches ALL constraints
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matches(view, i, filters.Ranges, sets) {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

func matches(view RecordView, i int, ranges []RangeFilter, sets map[string]map[string]bool) bool {
	for _, r := range ranges {
		if !r.Contains(view.Measure(i, r.Key)) {
			return false
		}
	}
	for dim, set := range sets {
		if !set[strings.ToLower(view.Dimension(i, dim))] {
			return false
		}
	}
	return true
}

// Bounds returns the smallest and largest value of a measure.
// An empty view yields (NaN, NaN).
func Bounds(view RecordView, key string) (float64, float64) {
	n := view.Len()
	if n == 0 {
		return nan, nan
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := view.Measure(i, key)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ClampRange pulls a requested interval into the column's bounds, the way a
// slider widget would. Min above Max is left as-is and matches nothing.
func ClampRange(r RangeFilter, lo, hi float64) RangeFilter {
	r.Min = math.Min(math.Max(r.Min, lo), hi)
	r.Max = math.Max(math.Min(r.Max, hi), lo)
	return r
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
