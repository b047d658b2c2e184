// Package dataset provides the bundled Iris observation table.
package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"math"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/spektr-org/irisdash/engine"
	"github.com/spektr-org/irisdash/schema"
)

// ============================================================================
// IRIS DATASET — Fixed reference table, loaded once per process
// ============================================================================
// The CSV is compiled into the binary. Load parses it on first use and every
// later call returns the same immutable *Dataset.
// ============================================================================

//go:embed iris.csv
var irisCSV []byte

// Column keys of the observation table.
const (
	SepalLength = "sepal_length"
	SepalWidth  = "sepal_width"
	PetalLength = "petal_length"
	PetalWidth  = "petal_width"
	Target      = "target"
	Species     = "species"
)

// labelColumn is the CSV header of the integer class label.
const labelColumn = "target"

// speciesNames is the fixed label → category mapping.
var speciesNames = map[int]string{
	0: "Setosa",
	1: "Versicolor",
	2: "Virginica",
}

// SpeciesName maps an integer class label to its category name.
func SpeciesName(target int) string {
	if name, ok := speciesNames[target]; ok {
		return name
	}
	return "Unknown"
}

// SpeciesNames returns the category names in label order.
func SpeciesNames() []string {
	return []string{SpeciesName(0), SpeciesName(1), SpeciesName(2)}
}

// Observation is one flower.
type Observation struct {
	SepalLength float64
	SepalWidth  float64
	PetalLength float64
	PetalWidth  float64
	Target      int
	Species     string
}

// adapter exposes Observations to the engine without copying.
var adapter = engine.NewDomainAdapter[Observation]().
	Measure(SepalLength, func(o Observation) float64 { return o.SepalLength }).
	Measure(SepalWidth, func(o Observation) float64 { return o.SepalWidth }).
	Measure(PetalLength, func(o Observation) float64 { return o.PetalLength }).
	Measure(PetalWidth, func(o Observation) float64 { return o.PetalWidth }).
	Measure(Target, func(o Observation) float64 { return float64(o.Target) }).
	Dimension(Species, func(o Observation) string { return o.Species })

// setters write one parsed CSV column into an Observation field.
var setters = map[string]func(*Observation, float64){
	SepalLength: func(o *Observation, v float64) { o.SepalLength = v },
	SepalWidth:  func(o *Observation, v float64) { o.SepalWidth = v },
	PetalLength: func(o *Observation, v float64) { o.PetalLength = v },
	PetalWidth:  func(o *Observation, v float64) { o.PetalWidth = v },
}

// Dataset is the loaded, immutable observation table.
type Dataset struct {
	rows   []Observation
	schema *schema.Config
	view   engine.RecordView
}

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns a copy of the observations.
func (d *Dataset) Rows() []Observation {
	return append([]Observation(nil), d.rows...)
}

// View returns the table as an engine.RecordView.
func (d *Dataset) View() engine.RecordView { return d.view }

// Schema returns the column metadata.
func (d *Dataset) Schema() schema.Config { return *d.schema }

var load = sync.OnceValues(func() (*Dataset, error) {
	ds, err := Parse(bytes.NewReader(irisCSV))
	if err != nil {
		return nil, fmt.Errorf("load bundled iris dataset: %w", err)
	}
	log.Printf("📋 Loaded iris dataset: %d rows, %d measures", ds.Len(), len(ds.schema.Measures))
	return ds, nil
})

// Load returns the bundled Iris table. The first call parses it; later calls
// return the same value.
func Load() (*Dataset, error) {
	return load()
}

// Parse reads an Iris-shaped CSV: four numeric measurement columns plus an
// integer "target" column. The species column is derived from target.
func Parse(r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{labelColumn: series.Int}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("parse csv: no data rows")
	}

	sch, err := schema.FromHeaders("Iris", df.Names(), labelColumn)
	if err != nil {
		return nil, err
	}
	if len(sch.Measures) != len(setters)+1 {
		return nil, fmt.Errorf("expected %d columns, got %d", len(setters)+1, len(sch.Measures))
	}

	rows := make([]Observation, df.Nrow())
	for _, m := range sch.Measures {
		col := df.Col(m.Source)
		if m.IsLabel {
			labels, err := col.Int()
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", m.Source, err)
			}
			for i, v := range labels {
				rows[i].Target = v
				rows[i].Species = SpeciesName(v)
			}
			continue
		}
		set, ok := setters[m.Key]
		if !ok {
			return nil, fmt.Errorf("unexpected column %q", m.Source)
		}
		for i, v := range col.Float() {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("column %q row %d: not a number", m.Source, i+1)
			}
			set(&rows[i], v)
		}
	}

	sch.Dimensions = append(sch.Dimensions, schema.DimensionMeta{
		Key:          Species,
		DisplayName:  "species",
		Description:  "Category name derived from the class label",
		SampleValues: SpeciesNames(),
		Groupable:    true,
		Filterable:   true,
		DerivedFrom:  Target,
	})

	return &Dataset{
		rows:   rows,
		schema: sch,
		view:   adapter.Bind(rows),
	}, nil
}
