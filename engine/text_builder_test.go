package engine

import (
	"strings"
	"testing"
)

func TestBuildText(t *testing.T) {
	view := sampleView()
	cm := Correlate(view, view.MeasureKeys())
	text := BuildText(view, cm)

	if text.Value != "6 rows selected" || text.Count != 6 {
		t.Errorf("headline = %q (%d)", text.Value, text.Count)
	}
	want := []string{"Setosa: 2 rows", "Versicolor: 2 rows", "Virginica: 2 rows"}
	if len(text.Details) != len(want)+1 {
		t.Fatalf("details = %v", text.Details)
	}
	for i, w := range want {
		if text.Details[i] != w {
			t.Errorf("detail %d: got %q, want %q", i, text.Details[i], w)
		}
	}
	// target is skipped, so the only candidate pair is sepal vs petal length
	if got := text.Details[3]; !strings.HasPrefix(got, "Strongest correlation: Sepal length and Petal length") {
		t.Errorf("strongest pair = %q", got)
	}
}

func TestBuildTextEmpty(t *testing.T) {
	view := ApplyFilters(sampleView(), Filters{Dimensions: map[string][]string{"species": {"none"}}})
	text := BuildText(view, nil)
	if text.Count != 0 || len(text.Details) != 0 {
		t.Errorf("unexpected text for no rows: %+v", text)
	}
}

func TestStrongestPairSkipsUndefined(t *testing.T) {
	cm := Correlate(linearView(1), []string{"x", "up"})
	if _, _, _, ok := strongestPair(cm, ""); ok {
		t.Error("all-NaN matrix should have no strongest pair")
	}
	if _, _, _, ok := strongestPair(nil, ""); ok {
		t.Error("nil matrix should have no strongest pair")
	}

	a, b, r, ok := strongestPair(Correlate(linearView(5), []string{"x", "flat", "down"}), "")
	if !ok || a != "x" || b != "down" {
		t.Errorf("got %s/%s ok=%v", a, b, ok)
	}
	assertNear(t, r, -1, "strongest r")
}
