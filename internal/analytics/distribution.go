package analytics

import (
	"fmt"
	"math"
	"sort"

	"movie-ratings/internal/models"
)

// Reduction names how grouped records are reduced to a value.
type Reduction string

const (
	// ReduceCount counts records with a non-missing Value field, or all
	// records in the group when Value is empty.
	ReduceCount Reduction = "count"
	// ReduceMean averages the non-missing numeric Value field.
	ReduceMean Reduction = "mean"
	// ReduceValues passes the non-missing numeric values through.
	ReduceValues Reduction = "values"
)

// SortOrder names how groups are ordered before truncation.
type SortOrder string

const (
	// SortNone keeps first-encounter order of group keys.
	SortNone SortOrder = ""
	// SortValueDesc orders by reduced value, largest first. Ties keep
	// first-encounter order.
	SortValueDesc SortOrder = "value_desc"
)

// GroupSpec describes one grouped aggregation.
type GroupSpec struct {
	GroupBy   string
	Value     string
	Reduction Reduction
	SortBy    SortOrder
	Limit     int
}

// Group is one aggregated category.
type Group struct {
	Key    string    `json:"key"`
	Count  int       `json:"count"`
	Value  float64   `json:"value"`
	Values []float64 `json:"values,omitempty"`
}

// GroupAndAggregate groups records by a categorical field and reduces each
// group. Pipeline: group -> reduce -> sort -> limit.
//
// Records whose group key is missing are not assigned to any group.
func GroupAndAggregate(ds *models.Dataset, spec GroupSpec) ([]Group, error) {
	if err := validateGroupSpec(ds, spec); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	groups := make([]Group, 0)

	for i := 0; i < ds.Len(); i++ {
		key, ok := ds.Dimension(i, spec.GroupBy)
		if !ok {
			continue
		}

		pos, exists := index[key]
		if !exists {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group{Key: key})
		}
		g := &groups[pos]
		g.Count++

		switch spec.Reduction {
		case ReduceCount:
			if spec.Value == "" || present(ds, i, spec.Value) {
				g.Value++
			}
		case ReduceMean, ReduceValues:
			if v, ok := ds.Measure(i, spec.Value); ok {
				g.Values = append(g.Values, v)
			}
		}
	}

	if spec.Reduction == ReduceMean {
		for i := range groups {
			groups[i].Value = mean(groups[i].Values)
			groups[i].Values = nil
		}
	}

	SortGroups(groups, spec.SortBy)

	if spec.Limit > 0 && len(groups) > spec.Limit {
		groups = groups[:spec.Limit]
	}

	return groups, nil
}

// SortGroups orders groups in place. The sort is stable.
func SortGroups(groups []Group, order SortOrder) {
	switch order {
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool {
			return greater(groups[i].Value, groups[j].Value)
		})
	default:
		// preserve grouping order
	}
}

// greater orders NaN after every number.
func greater(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}

func present(ds *models.Dataset, i int, field string) bool {
	if ds.HasMeasure(field) {
		_, ok := ds.Measure(i, field)
		return ok
	}
	_, ok := ds.Dimension(i, field)
	return ok
}

func validateGroupSpec(ds *models.Dataset, spec GroupSpec) error {
	if !ds.HasDimension(spec.GroupBy) {
		return &models.SchemaError{Field: spec.GroupBy, Row: -1, Message: "not a categorical field"}
	}

	switch spec.Reduction {
	case ReduceCount:
		if spec.Value != "" && !ds.HasMeasure(spec.Value) && !ds.HasDimension(spec.Value) {
			return &models.SchemaError{Field: spec.Value, Row: -1, Message: "unknown field"}
		}
	case ReduceMean, ReduceValues:
		if !ds.HasMeasure(spec.Value) {
			return &models.SchemaError{Field: spec.Value, Row: -1, Message: "not a numeric field"}
		}
	default:
		return fmt.Errorf("unsupported reduction %q", spec.Reduction)
	}

	return nil
}
