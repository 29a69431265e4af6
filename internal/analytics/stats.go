// Package analytics holds the stateless computations behind every view:
// outlier detection, grouped aggregation, genre totals, global-max top-N and
// descriptive statistics. Functions take a read-only *models.Dataset and never
// modify it. Numeric fields are read through the dataset's coerced values, so
// a malformed rating is excluded from statistics but still listed in any
// output that enumerates rows.
package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"movie-ratings/internal/models"
)

// Summary holds descriptive statistics of one numeric field.
// Undefined statistics are NaN: Mean and Median need one value, StdDev two.
type Summary struct {
	Field  string  `json:"field"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Empty reports whether no non-missing value contributed to the summary.
func (s Summary) Empty() bool { return s.Count == 0 }

// Describe returns mean, median and sample standard deviation of field,
// ignoring missing values.
func Describe(ds *models.Dataset, field string) (Summary, error) {
	if !ds.HasMeasure(field) {
		return Summary{}, &models.SchemaError{Field: field, Row: -1, Message: "not a numeric field"}
	}

	values := ds.Values(field)
	return Summary{
		Field:  field,
		Count:  len(values),
		Mean:   mean(values),
		Median: median(values),
		StdDev: sampleStdDev(values),
	}, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := sortedCopy(values)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1]/2 + sorted[n/2]/2
}

// quantile interpolates linearly between closest ranks over sorted values,
// placing quantile p at position p*(n-1). The weighted form stays finite
// for neighbours further apart than math.MaxFloat64.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func sortedCopy(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted
}
