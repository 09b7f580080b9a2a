// Package sample generates the synthetic housing-price dataset used for
// demos and as the default batch input.
package sample

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"

	"timeseer/internal/dataprocessing"
)

// Region is a named series with its starting price level
type Region struct {
	Name string
	Base float64
}

// Regions lists the generated series in column order
var Regions = []Region{
	{"New York, NY", 500000},
	{"Los Angeles, CA", 700000},
	{"Chicago, IL", 300000},
	{"Houston, TX", 250000},
	{"Phoenix, AZ", 350000},
	{"Philadelphia, PA", 280000},
	{"San Antonio, TX", 220000},
	{"San Diego, CA", 650000},
	{"Dallas, TX", 280000},
	{"Austin, TX", 450000},
}

var (
	// Start is the first month of the generated data
	Start = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)
	// End is the last month of the generated data
	End = time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
)

// Generator draws sample data from its own random source
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed, so equal seeds give
// equal data
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomGenerator returns a generator with an unpredictable seed
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.Uint64())
}

// Dates returns the month starts from Start to End inclusive
func Dates() []time.Time {
	var dates []time.Time
	for d := Start; !d.After(End); d = d.AddDate(0, 1, 0) {
		dates = append(dates, d)
	}
	return dates
}

// Frame generates every region over Dates. Each value is
// base*(1 + trend + seasonality + noise) rounded to a whole number, where the
// trend climbs linearly to 50%, the seasonality completes five cycles with
// 10% amplitude and the noise is Gaussian with 5% deviation.
func (g *Generator) Frame() *dataprocessing.Frame {
	dates := Dates()
	n := len(dates)

	trend := floats.Span(make([]float64, n), 0, 0.5)
	phase := floats.Span(make([]float64, n), 0, 2*math.Pi*5)

	columns := make([]string, len(Regions))
	values := make(map[string][]float64, len(Regions))
	for r, region := range Regions {
		series := make([]float64, n)
		for i := range series {
			noise := 0.05 * g.rng.NormFloat64()
			series[i] = math.Round(region.Base * (1 + trend[i] + 0.1*math.Sin(phase[i]) + noise))
		}
		columns[r] = region.Name
		values[region.Name] = series
	}

	return &dataprocessing.Frame{Index: dates, IndexName: "date", Columns: columns, Values: values}
}
