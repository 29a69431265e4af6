package analytics

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"movie-ratings/internal/models"
)

// TopByGlobalMax selects the records whose field equals the dataset-wide
// maximum of that field, then truncates to n. It does not rank below the
// maximum: with few distinct values the result may hold fewer than n records.
// Indices are returned in dataset order; a non-positive n means no limit.
func TopByGlobalMax(ds *models.Dataset, field string, n int) ([]int, error) {
	if !ds.HasMeasure(field) {
		return nil, &models.SchemaError{Field: field, Row: -1, Message: "not a numeric field"}
	}

	values := ds.Values(field)
	if len(values) == 0 {
		return []int{}, nil
	}
	top := floats.Max(values)

	selected := make([]int, 0)
	for i := 0; i < ds.Len(); i++ {
		if v, ok := ds.Measure(i, field); ok && v == top {
			selected = append(selected, i)
		}
	}

	sort.SliceStable(selected, func(a, b int) bool {
		va, _ := ds.Measure(selected[a], field)
		vb, _ := ds.Measure(selected[b], field)
		return va > vb
	})

	if n > 0 && len(selected) > n {
		selected = selected[:n]
	}

	return selected, nil
}
