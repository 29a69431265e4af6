package analytics

import (
	"math"
)

// BoxSummary describes a distribution for box-plot rendering.
// Whiskers reach the most extreme values within 1.5 IQR of the quartiles;
// values beyond them are fliers.
type BoxSummary struct {
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Fliers       []float64 `json:"fliers,omitempty"`
}

// Box summarises values. With showFliers false the fliers are dropped from
// the summary, matching a plot that hides extreme points.
func Box(values []float64, showFliers bool) BoxSummary {
	if len(values) == 0 {
		nan := math.NaN()
		return BoxSummary{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan, LowerWhisker: nan, UpperWhisker: nan}
	}

	sorted := sortedCopy(values)
	box := BoxSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}

	iqr := box.Q3 - box.Q1
	lowFence := box.Q1 - 1.5*iqr
	highFence := box.Q3 + 1.5*iqr

	box.LowerWhisker = box.Q1
	box.UpperWhisker = box.Q3
	for _, v := range sorted {
		if v >= lowFence {
			box.LowerWhisker = math.Min(v, box.Q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			box.UpperWhisker = math.Max(sorted[i], box.Q3)
			break
		}
	}

	if showFliers {
		for _, v := range sorted {
			if v < lowFence || v > highFence {
				box.Fliers = append(box.Fliers, v)
			}
		}
	}

	return box
}
