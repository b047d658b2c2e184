package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Preview, descriptive statistics, correlation tables
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// Column discovery uses view.MeasureKeys()/DimensionKeys().
// ============================================================================

// BuildPreviewTable produces a table of the first n rows, measures first.
func BuildPreviewTable(view RecordView, n int, opts ...Option) *TableData {
	return buildPreviewTable(view, n, applyOptions(opts))
}

func buildPreviewTable(view RecordView, n int, cfg *config) *TableData {
	head := Head(view, n)
	mesKeys := view.MeasureKeys()
	dimKeys := view.DimensionKeys()

	columns := make([]Column, 0, len(mesKeys)+len(dimKeys))
	for _, key := range mesKeys {
		columns = append(columns, Column{Key: key, Label: cfg.label(key), Type: "number", Align: "right"})
	}
	for _, key := range dimKeys {
		columns = append(columns, Column{Key: key, Label: cfg.label(key), Type: "text", Align: "left"})
	}

	rows := make([][]string, 0, head.Len())
	for i := 0; i < head.Len(); i++ {
		row := make([]string, 0, len(columns))
		for _, key := range mesKeys {
			if key == cfg.LabelMeasure {
				row = append(row, fmt.Sprintf("%d", int(head.Measure(i, key))))
				continue
			}
			row = append(row, FormatValue(head.Measure(i, key)))
		}
		for _, key := range dimKeys {
			row = append(row, head.Dimension(i, key))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   "Data preview",
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Showing %d of %d rows", head.Len(), view.Len()),
			Values: map[string]string{},
		},
	}
}

// statRows lists the summary rows in display order.
var statRows = []struct {
	label string
	value func(ColumnStats) string
}{
	{"count", func(c ColumnStats) string { return fmt.Sprintf("%d", c.Count) }},
	{"mean", func(c ColumnStats) string { return FormatFloat(c.Mean) }},
	{"std", func(c ColumnStats) string { return FormatFloat(c.Std) }},
	{"min", func(c ColumnStats) string { return FormatFloat(c.Min) }},
	{"25%", func(c ColumnStats) string { return FormatFloat(c.Q25) }},
	{"50%", func(c ColumnStats) string { return FormatFloat(c.Q50) }},
	{"75%", func(c ColumnStats) string { return FormatFloat(c.Q75) }},
	{"max", func(c ColumnStats) string { return FormatFloat(c.Max) }},
}

// BuildStatsTable lays out descriptive statistics with one column per key
// and one row per statistic.
func BuildStatsTable(stats []ColumnStats, opts ...Option) *TableData {
	return buildStatsTable(stats, applyOptions(opts))
}

func buildStatsTable(stats []ColumnStats, cfg *config) *TableData {
	columns := []Column{{Key: "stat", Label: "", Type: "text", Align: "left"}}
	for _, cs := range stats {
		columns = append(columns, Column{Key: cs.Key, Label: cfg.label(cs.Key), Type: "number", Align: "right"})
	}

	rows := make([][]string, 0, len(statRows))
	for _, sr := range statRows {
		row := []string{sr.label}
		for _, cs := range stats {
			row = append(row, sr.value(cs))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   "Descriptive statistics",
		Columns: columns,
		Rows:    rows,
	}
}

// BuildCorrelationTable renders a correlation matrix as a square table.
func BuildCorrelationTable(cm *CorrelationMatrix, opts ...Option) *TableData {
	return buildCorrelationTable(cm, applyOptions(opts))
}

func buildCorrelationTable(cm *CorrelationMatrix, cfg *config) *TableData {
	table := &TableData{
		Title:   "Correlations between features",
		Columns: []Column{{Key: "feature", Label: "", Type: "text", Align: "left"}},
		Rows:    [][]string{},
	}
	if cm == nil || len(cm.Keys) == 0 {
		return table
	}
	for _, key := range cm.Keys {
		table.Columns = append(table.Columns, Column{Key: key, Label: cfg.label(key), Type: "number", Align: "right"})
	}
	for i, key := range cm.Keys {
		row := []string{cfg.label(key)}
		for j := range cm.Keys {
			row = append(row, FormatFloat(cm.At(i, j)))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
