package engine

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// CORRELATION — Pairwise Pearson matrix over numeric columns
// ============================================================================

// CorrelationMatrix holds pairwise Pearson coefficients in key order.
type CorrelationMatrix struct {
	Keys []string
	M    *mat.SymDense
}

// At returns the coefficient between keys i and j.
func (c *CorrelationMatrix) At(i, j int) float64 {
	return c.M.At(i, j)
}

// Correlate computes the Pearson correlation of every pair of keys.
// Entries are NaN when fewer than two rows remain or a column is constant.
func Correlate(view RecordView, keys []string) *CorrelationMatrix {
	n := len(keys)
	cm := &CorrelationMatrix{Keys: keys}
	if n == 0 {
		return cm
	}
	cm.M = mat.NewSymDense(n, nil)

	cols := make([][]float64, n)
	defined := make([]bool, n)
	for i, key := range keys {
		cols[i] = MeasureValues(view, key)
		defined[i] = view.Len() > 1 && stat.Variance(cols[i], nil) > 0
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			switch {
			case !defined[i] || !defined[j]:
				cm.M.SetSym(i, j, nan)
			case i == j:
				cm.M.SetSym(i, j, 1)
			default:
				cm.M.SetSym(i, j, stat.Correlation(cols[i], cols[j], nil))
			}
		}
	}
	return cm
}
