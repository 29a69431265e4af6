package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// HistogramBin is one equal-width bin. Bins are half-open except the last,
// which includes its upper edge.
type HistogramBin struct {
	RangeStart float64 `json:"range_start"`
	RangeEnd   float64 `json:"range_end"`
	Count      int     `json:"count"`
}

// Histogram divides [min, max] of values into bins equal-width bins.
// When every value is equal the range is widened by 0.5 on both sides.
//
// Edges and positions are computed on halved values so that a range wider
// than math.MaxFloat64 still yields finite edges.
func Histogram(values []float64, bins int) []HistogramBin {
	if bins <= 0 || len(values) == 0 {
		return []HistogramBin{}
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].RangeStart = edge(lo, hi, i, bins)
		out[i].RangeEnd = edge(lo, hi, i+1, bins)
	}

	// Large magnitudes absorb the 0.5 widening; everything then sits in the
	// middle bin, as it would for an exact widening.
	halfSpan := hi/2 - lo/2
	for _, v := range values {
		idx := bins / 2
		if halfSpan > 0 {
			idx = int(math.Floor((v/2 - lo/2) / halfSpan * float64(bins)))
		}
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}

	return out
}

// edge returns the i-th of bins+1 evenly spaced points from lo to hi.
func edge(lo, hi float64, i, bins int) float64 {
	switch i {
	case 0:
		return lo
	case bins:
		return hi
	}
	t := float64(i) / float64(bins)
	return lo*(1-t) + hi*t
}
