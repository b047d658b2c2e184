package schema

import (
	"testing"
)

// ============================================================================
// SCHEMA TESTS
// ============================================================================

var irisHeaders = []string{
	"sepal length (cm)", "sepal width (cm)", "petal length (cm)", "petal width (cm)", "target",
}

func TestKeyFromHeader(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sepal length (cm)", "sepal_length"},
		{"petal width (cm)", "petal_width"},
		{"target", "target"},
		{"petalWidth", "petal_width"},
		{"  Sepal-Length  ", "sepal_length"},
		{"Time Spent (hours)", "time_spent"},
	}

	for _, tt := range tests {
		got := KeyFromHeader(tt.input)
		if got != tt.expected {
			t.Errorf("KeyFromHeader(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDefaultMeasureUnit(t *testing.T) {
	m := DefaultMeasure("sepal length (cm)")
	assertEqual(t, m.Key, "sepal_length", "key")
	assertEqual(t, m.DisplayName, "sepal length (cm)", "display name")
	assertEqual(t, m.Unit, "cm", "unit")
	assertEqual(t, m.Source, "sepal length (cm)", "source")

	m = DefaultMeasure("target")
	assertEqual(t, m.Unit, "", "unitless header")
}

func TestFromHeaders(t *testing.T) {
	cfg, err := FromHeaders("Iris", irisHeaders, "target")
	if err != nil {
		t.Fatalf("FromHeaders failed: %v", err)
	}

	keys := cfg.MeasureKeys()
	want := []string{"sepal_length", "sepal_width", "petal_length", "petal_width", "target"}
	if len(keys) != len(want) {
		t.Fatalf("got %d measures, want %d", len(keys), len(want))
	}
	for i := range want {
		assertEqual(t, keys[i], want[i], "measure order")
	}
	assertEqual(t, cfg.LabelMeasure(), "target", "label measure")

	labels := cfg.Labels()
	assertEqual(t, labels["petal_width"], "petal width (cm)", "label lookup")
}

func TestFromHeadersErrors(t *testing.T) {
	if _, err := FromHeaders("x", nil, ""); err == nil {
		t.Error("expected error for no columns")
	}
	if _, err := FromHeaders("x", []string{"a", "A"}, ""); err == nil {
		t.Error("expected error for duplicate keys")
	}
	if _, err := FromHeaders("x", []string{"a", "b"}, "label"); err == nil {
		t.Error("expected error for missing label column")
	}
	if _, err := FromHeaders("x", []string{"a", " "}, ""); err == nil {
		t.Error("expected error for empty header")
	}
}

func TestDimensionsInLabels(t *testing.T) {
	cfg, err := FromHeaders("Iris", irisHeaders, "target")
	if err != nil {
		t.Fatalf("FromHeaders failed: %v", err)
	}
	cfg.Dimensions = append(cfg.Dimensions, DefaultDimension("species", "Species", []string{"Setosa"}))

	assertEqual(t, cfg.Labels()["species"], "Species", "dimension label")
	if got := cfg.DimensionKeys(); len(got) != 1 || got[0] != "species" {
		t.Errorf("DimensionKeys = %v", got)
	}
}

func assertEqual(t *testing.T, got, want, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", msg, got, want)
	}
}
