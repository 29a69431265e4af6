package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"movie-ratings/internal/models"
)

// DefaultOutlierThreshold is the |z| above which a rating is an outlier.
const DefaultOutlierThreshold = 3.0

// OutlierReport is the result of z-score outlier detection over ratings.
//
// Outliers and InRange are defined independently: Outliers lists the records
// whose |z| exceeds the threshold, InRange holds the ratings whose |z| does
// not. Records with a missing rating appear in neither and have a NaN z-score.
type OutlierReport struct {
	Threshold float64 `json:"threshold"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`

	// ZScores is aligned with the dataset's records.
	ZScores []float64 `json:"-"`

	// Outliers holds record indices in dataset order.
	Outliers []int `json:"outliers"`

	// InRange is the overlay of non-outlier ratings in dataset order.
	InRange []float64 `json:"in_range"`

	// Box summarises all non-missing ratings with fliers suppressed.
	Box BoxSummary `json:"box"`
}

// DetectOutliers flags ratings whose sample z-score exceeds threshold in
// absolute value. A non-positive or NaN threshold selects
// DefaultOutlierThreshold.
//
// When the standard deviation is zero or undefined (fewer than two ratings)
// every z-score is zero and nothing is flagged.
func DetectOutliers(ds *models.Dataset, threshold float64) OutlierReport {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultOutlierThreshold
	}

	values := ds.Values(models.FieldRating)
	report := OutlierReport{
		Threshold: threshold,
		Mean:      mean(values),
		StdDev:    sampleStdDev(values),
		ZScores:   make([]float64, ds.Len()),
		Outliers:  []int{},
		InRange:   make([]float64, 0, len(values)),
		Box:       Box(values, false),
	}

	degenerate := math.IsNaN(report.StdDev) || report.StdDev == 0

	for i := 0; i < ds.Len(); i++ {
		v, ok := ds.Measure(i, models.FieldRating)
		if !ok {
			report.ZScores[i] = math.NaN()
			continue
		}

		z := 0.0
		if !degenerate {
			z = stat.StdScore(v, report.Mean, report.StdDev)
		}
		report.ZScores[i] = z

		if math.Abs(z) > threshold {
			report.Outliers = append(report.Outliers, i)
		} else {
			report.InRange = append(report.InRange, v)
		}
	}

	return report
}
