package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — Describes the shape of the observation table
// ============================================================================
// Built from the bundled CSV headers at load time. The engine never sees the
// schema directly; the dashboard uses it for widget labels, and the loader
// uses it to map CSV columns onto typed fields.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key          string   `json:"key"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description,omitempty"`
	SampleValues []string `json:"sampleValues"`
	Groupable    bool     `json:"groupable"`
	Filterable   bool     `json:"filterable"`
	DerivedFrom  string   `json:"derivedFrom,omitempty"` // Source measure if computed
}

// MeasureMeta describes a numeric field.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`         // CSV header
	Unit        string `json:"unit,omitempty"` // "cm", ...
	IsLabel     bool   `json:"isLabel,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string, samples []string) DimensionMeta {
	return DimensionMeta{
		Key:          key,
		DisplayName:  displayName,
		SampleValues: samples,
		Groupable:    true,
		Filterable:   true,
	}
}

// DefaultMeasure creates a MeasureMeta for a CSV header.
// "sepal length (cm)" → key "sepal_length", unit "cm".
func DefaultMeasure(header string) MeasureMeta {
	return MeasureMeta{
		Key:         KeyFromHeader(header),
		DisplayName: strings.TrimSpace(header),
		Source:      header,
		Unit:        unitFromHeader(header),
	}
}

// FromHeaders builds a Config with one measure per header. The header named
// labelColumn is marked as the numeric class label.
func FromHeaders(name string, headers []string, labelColumn string) (*Config, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("schema: no columns")
	}
	cfg := &Config{Name: name, Version: "1.0"}
	seen := make(map[string]bool, len(headers))
	foundLabel := labelColumn == ""
	for _, h := range headers {
		m := DefaultMeasure(h)
		if m.Key == "" {
			return nil, fmt.Errorf("schema: empty column header")
		}
		if seen[m.Key] {
			return nil, fmt.Errorf("schema: duplicate column %q", m.Key)
		}
		seen[m.Key] = true
		if h == labelColumn {
			m.IsLabel = true
			foundLabel = true
		}
		cfg.Measures = append(cfg.Measures, m)
	}
	if !foundLabel {
		return nil, fmt.Errorf("schema: label column %q not found", labelColumn)
	}
	return cfg, nil
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// LabelMeasure returns the key of the class label measure, if any.
func (c Config) LabelMeasure() string {
	for _, m := range c.Measures {
		if m.IsLabel {
			return m.Key
		}
	}
	return ""
}

// Labels maps every key to its display name.
func (c Config) Labels() map[string]string {
	labels := make(map[string]string, len(c.Dimensions)+len(c.Measures))
	for _, d := range c.Dimensions {
		labels[d.Key] = d.DisplayName
	}
	for _, m := range c.Measures {
		labels[m.Key] = m.DisplayName
	}
	return labels
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

var unitSuffix = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)

// KeyFromHeader converts a CSV header into a column key.
// "sepal length (cm)" → "sepal_length", "petalWidth" → "petal_width".
func KeyFromHeader(header string) string {
	return toSnakeCase(unitSuffix.ReplaceAllString(strings.TrimSpace(header), ""))
}

func unitFromHeader(header string) string {
	m := unitSuffix.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = strings.ToLower(result.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
