package engine

import (
	"testing"
)

// ============================================================================
// FILTER TESTS
// ============================================================================

// sampleView is a small observation table: measures sepal_length, petal_length,
// target and dimension species.
func sampleView() RecordView {
	rows := []struct {
		sl, pl float64
		target float64
		sp     string
	}{
		{5.1, 1.4, 0, "Setosa"},
		{4.9, 1.4, 0, "Setosa"},
		{7.0, 4.7, 1, "Versicolor"},
		{6.3, 6.0, 2, "Virginica"},
		{5.8, 4.1, 1, "Versicolor"},
		{6.5, 5.1, 2, "Virginica"},
	}
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{
			Dimensions: map[string]string{"species": r.sp},
			Measures: map[string]float64{
				"sepal_length": r.sl,
				"petal_length": r.pl,
				"target":       r.target,
			},
		}
	}
	return NewSliceViewWithKeys(records,
		[]string{"species"},
		[]string{"sepal_length", "petal_length", "target"})
}

func TestApplyFiltersIdentity(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{})
	if got != view {
		t.Error("empty filters must return the input view unchanged")
	}

	// Empty category list is no constraint either
	got = ApplyFilters(view, Filters{Dimensions: map[string][]string{"species": {}}})
	if got != view {
		t.Error("empty category selection must return the input view unchanged")
	}
}

func TestApplyFiltersRangeExample(t *testing.T) {
	records := []Record{}
	for _, v := range []float64{5.1, 4.9, 7.0, 6.3} {
		records = append(records, Record{Measures: map[string]float64{"sepal_length": v}})
	}
	view := NewSliceView(records)

	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{{Key: "sepal_length", Min: 5.0, Max: 6.5}}})
	assertFloats(t, MeasureValues(got, "sepal_length"), []float64{5.1, 6.3}, "filtered values")
}

func TestApplyFiltersInclusiveBounds(t *testing.T) {
	view := sampleView()
	r := RangeFilter{Key: "sepal_length", Min: 5.1, Max: 6.5}
	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{r}})

	for i := 0; i < got.Len(); i++ {
		if v := got.Measure(i, "sepal_length"); !r.Contains(v) {
			t.Errorf("row %d value %.2f outside [%.2f, %.2f]", i, v, r.Min, r.Max)
		}
	}
	// Every input row inside the interval must survive
	assertFloats(t, MeasureValues(got, "sepal_length"), []float64{5.1, 6.3, 5.8, 6.5}, "inclusive range")
}

func TestApplyFiltersPointInterval(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{{Key: "petal_length", Min: 1.4, Max: 1.4}}})
	assertFloats(t, MeasureValues(got, "sepal_length"), []float64{5.1, 4.9}, "min == max keeps exact matches")
}

func TestApplyFiltersDefaultBoundsKeepEverything(t *testing.T) {
	view := sampleView()
	lo, hi := Bounds(view, "sepal_length")
	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{{Key: "sepal_length", Min: lo, Max: hi}}})
	if got.Len() != view.Len() {
		t.Errorf("default bounds filtered rows: got %d, want %d", got.Len(), view.Len())
	}
	assertFloats(t, MeasureValues(got, "sepal_length"), MeasureValues(view, "sepal_length"), "order preserved")
}

func TestApplyFiltersRangesAreAnded(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{
		{Key: "sepal_length", Min: 5.0, Max: 7.0},
		{Key: "petal_length", Min: 4.0, Max: 5.0},
	}})
	assertFloats(t, MeasureValues(got, "sepal_length"), []float64{7.0, 5.8}, "AND across ranges")
}

func TestApplyFiltersCategories(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Dimensions: map[string][]string{"species": {"Virginica", "setosa"}}})

	want := []string{"Setosa", "Setosa", "Virginica", "Virginica"}
	if got.Len() != len(want) {
		t.Fatalf("got %d rows, want %d", got.Len(), len(want))
	}
	for i, w := range want {
		if sp := got.Dimension(i, "species"); sp != w {
			t.Errorf("row %d: got %q, want %q", i, sp, w)
		}
	}
}

func TestApplyFiltersRangeAndCategory(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{
		Ranges:     []RangeFilter{{Key: "sepal_length", Min: 5.0, Max: 6.5}},
		Dimensions: map[string][]string{"species": {"Versicolor"}},
	})
	assertFloats(t, MeasureValues(got, "sepal_length"), []float64{5.8}, "range AND category")
}

func TestApplyFiltersNeverModifiesValues(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{{Key: "target", Min: 1, Max: 2}}})
	assertFloats(t, MeasureValues(got, "petal_length"), []float64{4.7, 6.0, 4.1, 5.1}, "untouched values")
	assertFloats(t, MeasureValues(view, "petal_length"), []float64{1.4, 1.4, 4.7, 6.0, 4.1, 5.1}, "parent unchanged")
}

func TestApplyFiltersInvertedRangeIsEmpty(t *testing.T) {
	view := sampleView()
	got := ApplyFilters(view, Filters{Ranges: []RangeFilter{{Key: "sepal_length", Min: 6.0, Max: 5.0}}})
	if got.Len() != 0 {
		t.Errorf("inverted range kept %d rows", got.Len())
	}
}

func TestBoundsAndClamp(t *testing.T) {
	view := sampleView()
	lo, hi := Bounds(view, "sepal_length")
	if lo != 4.9 || hi != 7.0 {
		t.Errorf("Bounds = (%v, %v)", lo, hi)
	}

	r := ClampRange(RangeFilter{Key: "sepal_length", Min: 1, Max: 99}, lo, hi)
	if r.Min != 4.9 || r.Max != 7.0 {
		t.Errorf("ClampRange = %+v", r)
	}

	r = ClampRange(RangeFilter{Key: "sepal_length", Min: 6.0, Max: 5.5}, lo, hi)
	if r.Min != 6.0 || r.Max != 5.5 {
		t.Errorf("ClampRange must not reorder: %+v", r)
	}
}

func TestFiltersIsEmpty(t *testing.T) {
	if !(Filters{}).IsEmpty() {
		t.Error("zero Filters should be empty")
	}
	f := Filters{Dimensions: map[string][]string{"species": nil}}
	if !f.IsEmpty() || f.HasFilter("species") {
		t.Error("nil category list should be empty")
	}
	f = Filters{Ranges: []RangeFilter{{Key: "x"}}}
	if f.IsEmpty() {
		t.Error("range filter should not be empty")
	}
}

func assertFloats(t *testing.T, got, want []float64, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: index %d got %v, want %v", msg, i, got[i], want[i])
		}
	}
}
