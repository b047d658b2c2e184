// Package irisdash is an exploratory data analysis dashboard for the Iris
// flower measurements.
//
// Usage:
//
//	import "github.com/spektr-org/irisdash/engine"
//
//	ds, _ := dataset.Load()
//	report, err := engine.Explore(ds.View(), sel,
//	    engine.WithLabels(ds.Schema().Labels()),
//	    engine.WithBins(20),
//	)
//
// The engine takes a Selection (filters plus chart choices) and a RecordView
// over the observation table, and returns render-ready output (tables and
// chart configs). The render package turns chart configs into PNGs, and the
// dashboard package serves both pages over HTTP.
//
// All computation is local; the dataset is compiled into the binary.
package irisdash
