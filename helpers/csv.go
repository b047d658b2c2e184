package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spektr-org/irisdash/engine"
)

// ============================================================================
// CSV HELPER — Writes a RecordView back out as CSV
// ============================================================================
// Used by the dashboard download: the currently filtered rows, measures first
// and dimensions after, with the same headers the bundled file uses.
// ============================================================================

// WriteCSV writes every row of view to w. Headers come from labels (falling
// back to the column key). Columns listed in intKeys are written as integers.
func WriteCSV(w io.Writer, view engine.RecordView, labels map[string]string, intKeys ...string) error {
	mesKeys := view.MeasureKeys()
	dimKeys := view.DimensionKeys()

	isInt := make(map[string]bool, len(intKeys))
	for _, k := range intKeys {
		isInt[k] = true
	}

	writer := csv.NewWriter(w)

	headers := make([]string, 0, len(mesKeys)+len(dimKeys))
	for _, key := range append(append([]string{}, mesKeys...), dimKeys...) {
		if l, ok := labels[key]; ok && l != "" {
			headers = append(headers, l)
		} else {
			headers = append(headers, key)
		}
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	row := make([]string, len(headers))
	for i := 0; i < view.Len(); i++ {
		for j, key := range mesKeys {
			v := view.Measure(i, key)
			if isInt[key] {
				row[j] = strconv.Itoa(int(v))
			} else {
				row[j] = engine.FormatValue(v)
			}
		}
		for j, key := range dimKeys {
			row[len(mesKeys)+j] = view.Dimension(i, key)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportFilename builds a download name like "iris_filtered_42.csv".
func ExportFilename(name string, rows int) string {
	return fmt.Sprintf("%s_filtered_%d.csv", toSnakeCase(name), rows)
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
