package analytics

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectOutliersFlagsExtremeRating(t *testing.T) {
	values := make([]string, 0, 21)
	for i := 0; i < 20; i++ {
		values = append(values, "3")
	}
	values = append(values, "50")

	ds := ratings(t, values...)
	report := DetectOutliers(ds, 3)

	require.Equal(t, []int{20}, report.Outliers)
	require.Len(t, report.InRange, 20)
	require.Greater(t, report.ZScores[20], 3.0)
	require.Len(t, report.ZScores, ds.Len())
}

func TestDetectOutliersAllIdenticalRatings(t *testing.T) {
	values := make([]string, 50)
	for i := range values {
		values[i] = "4"
	}

	report := DetectOutliers(ratings(t, values...), 3)

	require.Empty(t, report.Outliers)
	require.Len(t, report.InRange, 50)
	require.Equal(t, 0.0, report.StdDev)
	for _, z := range report.ZScores {
		require.Equal(t, 0.0, z)
	}
	require.Equal(t, 50, report.Box.Count)
	require.Equal(t, 4.0, report.Box.Median)
	require.Equal(t, 4.0, report.Box.Q1)
	require.Equal(t, 4.0, report.Box.Q3)
}

func TestDetectOutliersMissingRatings(t *testing.T) {
	ds := ratings(t, "1", "abc", "5", "", "3")
	report := DetectOutliers(ds, 0)

	require.Equal(t, DefaultOutlierThreshold, report.Threshold)
	require.True(t, math.IsNaN(report.ZScores[1]))
	require.True(t, math.IsNaN(report.ZScores[3]))
	require.Equal(t, []float64{1, 5, 3}, report.InRange)
	require.Empty(t, report.Outliers)
	require.Equal(t, 3, report.Box.Count)
}

func TestDetectOutliersSingleRating(t *testing.T) {
	report := DetectOutliers(ratings(t, "5"), 3)
	require.True(t, math.IsNaN(report.StdDev))
	require.Equal(t, []float64{0}, report.ZScores)
	require.Empty(t, report.Outliers)
}

func TestDetectOutliersLowThreshold(t *testing.T) {
	values := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		values = append(values, strconv.Itoa(i))
	}

	report := DetectOutliers(ratings(t, values...), 1.4)
	require.Equal(t, []int{0, 9}, report.Outliers)
	require.Len(t, report.InRange, 8)
}
