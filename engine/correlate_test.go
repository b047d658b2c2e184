package engine

import (
	"math"
	"testing"
)

func linearView(n int) RecordView {
	records := make([]Record, n)
	for i := range records {
		x := float64(i)
		records[i] = Record{Measures: map[string]float64{"x": x, "up": 2*x + 1, "down": -x, "flat": 3}}
	}
	return NewSliceViewWithKeys(records, nil, []string{"x", "up", "down", "flat"})
}

func TestCorrelateLinear(t *testing.T) {
	cm := Correlate(linearView(10), []string{"x", "up", "down"})

	assertNear(t, cm.At(0, 0), 1, "diagonal")
	assertNear(t, cm.At(0, 1), 1, "x vs up")
	assertNear(t, cm.At(0, 2), -1, "x vs down")
	if cm.At(1, 2) != cm.At(2, 1) {
		t.Error("matrix is not symmetric")
	}
}

func TestCorrelateConstantColumn(t *testing.T) {
	cm := Correlate(linearView(10), []string{"x", "flat"})
	if !math.IsNaN(cm.At(0, 1)) {
		t.Errorf("correlation with a constant column should be NaN, got %v", cm.At(0, 1))
	}
	if !math.IsNaN(cm.At(1, 1)) {
		t.Errorf("constant diagonal should be NaN, got %v", cm.At(1, 1))
	}
	assertNear(t, cm.At(0, 0), 1, "defined diagonal")
}

func TestCorrelateSingleRow(t *testing.T) {
	cm := Correlate(linearView(1), []string{"x", "up"})
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if !math.IsNaN(cm.At(i, j)) {
				t.Errorf("entry (%d,%d) = %v, want NaN", i, j, cm.At(i, j))
			}
		}
	}
}

func TestCorrelateNoKeys(t *testing.T) {
	cm := Correlate(linearView(5), nil)
	if cm.M != nil || len(cm.Keys) != 0 {
		t.Errorf("expected empty matrix, got %+v", cm)
	}
	if !BuildHeatmap(cm).IsEmpty() {
		t.Error("heatmap over no keys should be empty")
	}
}

func TestCorrelationTable(t *testing.T) {
	cm := Correlate(linearView(10), []string{"x", "down"})
	table := BuildCorrelationTable(cm, WithLabels(map[string]string{"x": "X value"}))

	if len(table.Columns) != 3 || table.Columns[1].Label != "X value" {
		t.Fatalf("unexpected columns: %+v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows", len(table.Rows))
	}
	if table.Rows[0][0] != "X value" || table.Rows[0][2] != "-1.000000" {
		t.Errorf("unexpected first row: %v", table.Rows[0])
	}
}
