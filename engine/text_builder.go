package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TEXT BUILDER — Produces TextData, a plain-language summary of a pass
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// ============================================================================

// BuildText summarizes a filtered view: row count, rows per category and,
// when a correlation matrix is given, the strongest pair of plottable features.
func BuildText(view RecordView, cm *CorrelationMatrix, opts ...Option) *TextData {
	return buildText(view, cm, applyOptions(opts))
}

func buildText(view RecordView, cm *CorrelationMatrix, cfg *config) *TextData {
	if view.Len() == 0 {
		return &TextData{
			Value: "No rows match the current filters",
			Count: 0,
		}
	}

	text := &TextData{
		Value: fmt.Sprintf("%d rows selected", view.Len()),
		Count: view.Len(),
	}
	if cfg.GroupDimension != "" {
		for _, g := range GroupBy(view, cfg.GroupDimension) {
			text.Details = append(text.Details, fmt.Sprintf("%s: %d rows", g.Label, g.Count))
		}
	}
	if a, b, r, ok := strongestPair(cm, cfg.LabelMeasure); ok {
		text.Details = append(text.Details, fmt.Sprintf("Strongest correlation: %s and %s (%.2f)",
			cfg.label(a), cfg.label(b), RoundTo2(r)))
	}
	return text
}

// strongestPair finds the off-diagonal entry with the largest |r|, skipping
// the label measure and undefined entries.
func strongestPair(cm *CorrelationMatrix, skip string) (string, string, float64, bool) {
	if cm == nil || cm.M == nil {
		return "", "", 0, false
	}
	best, bi, bj := -1.0, -1, -1
	for i, ki := range cm.Keys {
		for j := i + 1; j < len(cm.Keys); j++ {
			if ki == skip || cm.Keys[j] == skip {
				continue
			}
			r := cm.At(i, j)
			if math.IsNaN(r) {
				continue
			}
			if math.Abs(r) > best {
				best, bi, bj = math.Abs(r), i, j
			}
		}
	}
	if bi < 0 {
		return "", "", 0, false
	}
	return cm.Keys[bi], cm.Keys[bj], cm.At(bi, bj), true
}
