package dashboard

import (
	"math"
	"net/url"
	"strconv"

	"github.com/spektr-org/irisdash/dataset"
	"github.com/spektr-org/irisdash/engine"
)

// ============================================================================
// WIDGET STATE — Query string ⇄ engine.Selection
// ============================================================================
// Every widget lives in the query string, so a page URL fully describes one
// pass. Missing values fall back to what an untouched widget would show:
// sliders at the column bounds, pair axes on the first plottable feature.
// ============================================================================

// Query parameter names.
const (
	paramFeature     = "feature"
	paramMinPrefix   = "min_"
	paramMaxPrefix   = "max_"
	paramSpecies     = "species"
	paramDistFeature = "dist_feature"
	paramDistMode    = "dist_mode"
	paramPairX       = "pair_x"
	paramPairY       = "pair_y"
	paramPairMode    = "pair_mode"
	paramPairKind    = "pair_kind"
	paramBoxFeature  = "box_feature"
	paramBoxMode     = "box_mode"
)

// parseSelection decodes the explorer widgets. Ranges are only applied for
// features listed under "feature" and are clamped into the column bounds of
// the full table.
func parseSelection(q url.Values, view engine.RecordView, opts ...engine.Option) engine.Selection {
	sel := engine.Selection{ShowCorrelation: true}

	known := make(map[string]bool)
	for _, k := range engine.FilterKeys(view) {
		known[k] = true
	}
	seen := make(map[string]bool)
	for _, key := range q[paramFeature] {
		if !known[key] || seen[key] {
			continue
		}
		seen[key] = true
		lo, hi := engine.Bounds(view, key)
		r := engine.RangeFilter{
			Key: key,
			Min: parseFloat(q.Get(paramMinPrefix+key), lo),
			Max: parseFloat(q.Get(paramMaxPrefix+key), hi),
		}
		sel.Filters.Ranges = append(sel.Filters.Ranges, engine.ClampRange(r, lo, hi))
	}

	if species := nonEmpty(q[paramSpecies]); len(species) > 0 {
		sel.Filters.Dimensions = map[string][]string{dataset.Species: species}
	}

	plot := engine.PlotKeys(view, opts...)
	sel.DistFeatures = q[paramDistFeature]
	sel.DistMode = q.Get(paramDistMode)
	sel.PairX = valueOr(q.Get(paramPairX), plot)
	sel.PairY = valueOr(q.Get(paramPairY), plot)
	sel.PairMode = q.Get(paramPairMode)
	sel.PairKind = q.Get(paramPairKind)
	sel.BoxFeatures = q[paramBoxFeature]
	sel.BoxMode = q.Get(paramBoxMode)

	return engine.NormalizeSelection(sel, view, opts...)
}

// parseFloat reads a finite number, or returns def.
func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// valueOr returns v, or the first option when v is empty.
func valueOr(v string, options []string) string {
	if v == "" && len(options) > 0 {
		return options[0]
	}
	return v
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// SIDEBAR MODEL
// ============================================================================

type option struct {
	Value    string
	Label    string
	Selected bool
}

type rangeField struct {
	Key      string
	Label    string
	Min, Max float64 // column bounds
	Lo, Hi   float64 // current interval
	Selected bool
}

type sidebar struct {
	Ranges  []rangeField
	Species []option

	DistFeatures []option
	DistMode     string

	PairX    []option
	PairY    []option
	PairMode string
	PairKind string

	BoxFeatures []option
	BoxMode     string
}

// buildSidebar reflects a normalized selection back into widget state.
func buildSidebar(sel engine.Selection, view engine.RecordView, labels map[string]string, opts ...engine.Option) *sidebar {
	sb := &sidebar{
		DistMode: sel.DistMode,
		PairMode: sel.PairMode,
		PairKind: sel.PairKind,
		BoxMode:  sel.BoxMode,
	}

	active := make(map[string]engine.RangeFilter, len(sel.Filters.Ranges))
	for _, r := range sel.Filters.Ranges {
		active[r.Key] = r
	}
	for _, key := range engine.FilterKeys(view) {
		lo, hi := engine.Bounds(view, key)
		f := rangeField{Key: key, Label: label(labels, key), Min: lo, Max: hi, Lo: lo, Hi: hi}
		if r, ok := active[key]; ok {
			f.Lo, f.Hi, f.Selected = r.Min, r.Max, true
		}
		sb.Ranges = append(sb.Ranges, f)
	}

	chosen := make(map[string]bool)
	for _, s := range sel.Filters.Dimensions[dataset.Species] {
		chosen[s] = true
	}
	for _, s := range engine.UniqueValues(view, dataset.Species) {
		sb.Species = append(sb.Species, option{Value: s, Label: s, Selected: chosen[s]})
	}

	plot := engine.PlotKeys(view, opts...)
	sb.DistFeatures = options(plot, labels, sel.DistFeatures...)
	sb.PairX = options(plot, labels, sel.PairX)
	sb.PairY = options(plot, labels, sel.PairY)
	sb.BoxFeatures = options(plot, labels, sel.BoxFeatures...)
	return sb
}

func options(keys []string, labels map[string]string, selected ...string) []option {
	set := make(map[string]bool, len(selected))
	for _, s := range selected {
		set[s] = true
	}
	out := make([]option, len(keys))
	for i, k := range keys {
		out[i] = option{Value: k, Label: label(labels, k), Selected: set[k]}
	}
	return out
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok && l != "" {
		return l
	}
	return engine.LabelForDimension(key)
}
