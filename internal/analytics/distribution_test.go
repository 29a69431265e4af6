package analytics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"movie-ratings/internal/models"
)

func TestGroupAndAggregateCountMostActive(t *testing.T) {
	counts := []struct {
		occupation string
		n          int
	}{
		{"student", 40},
		{"engineer", 25},
		{"artist", 25},
		{"writer", 10},
	}
	for i := 0; i < 14; i++ {
		counts = append(counts, struct {
			occupation string
			n          int
		}{fmt.Sprintf("occupation-%02d", i), 1})
	}

	var rows []row
	// Interleave so encounter order is student, engineer, artist, ...
	for round := 0; round < 40; round++ {
		for _, c := range counts {
			if round < c.n {
				rows = append(rows, row{title: "m", rating: "3", occupation: c.occupation, age: "20"})
			}
		}
	}

	groups, err := GroupAndAggregate(newDataset(t, rows...), GroupSpec{
		GroupBy:   models.FieldOccupation,
		Value:     models.FieldMovieTitle,
		Reduction: ReduceCount,
		SortBy:    SortValueDesc,
		Limit:     15,
	})
	require.NoError(t, err)
	require.Len(t, groups, 15)

	require.Equal(t, "student", groups[0].Key)
	require.Equal(t, 40.0, groups[0].Value)
	require.Equal(t, "engineer", groups[1].Key)
	require.Equal(t, "artist", groups[2].Key)
	require.Equal(t, 25.0, groups[2].Value)
	require.Equal(t, "writer", groups[3].Key)
	require.Equal(t, "occupation-00", groups[4].Key)

	for i := 1; i < len(groups); i++ {
		require.GreaterOrEqual(t, groups[i-1].Value, groups[i].Value)
	}
}

func TestGroupAndAggregateTieKeepsEncounterOrder(t *testing.T) {
	ds := newDataset(t,
		row{title: "a", rating: "1", occupation: "artist"},
		row{title: "b", rating: "1", occupation: "engineer"},
		row{title: "c", rating: "1", occupation: "engineer"},
		row{title: "d", rating: "1", occupation: "artist"},
	)

	groups, err := GroupAndAggregate(ds, GroupSpec{
		GroupBy:   models.FieldOccupation,
		Reduction: ReduceCount,
		SortBy:    SortValueDesc,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"artist", "engineer"}, []string{groups[0].Key, groups[1].Key})
}

func TestGroupAndAggregateCountSkipsMissingValues(t *testing.T) {
	ds := newDataset(t,
		row{title: "a", rating: "4", occupation: "student"},
		row{title: "", rating: "4", occupation: "student"},
		row{title: "c", rating: "4", occupation: ""},
	)

	groups, err := GroupAndAggregate(ds, GroupSpec{
		GroupBy:   models.FieldOccupation,
		Value:     models.FieldMovieTitle,
		Reduction: ReduceCount,
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, 2, groups[0].Count)
	require.Equal(t, 1.0, groups[0].Value)
}

func TestGroupAndAggregateMeanByDay(t *testing.T) {
	ds := newDataset(t,
		row{title: "a", rating: "4", date: "1995-01-01", age: "20"}, // Sunday
		row{title: "b", rating: "4", date: "1995-01-02", age: "30"}, // Monday
		row{title: "c", rating: "4", date: "1995-01-08", age: "40"}, // Sunday
		row{title: "d", rating: "4", date: "1995-01-09", age: "?"},  // Monday
	)

	groups, err := GroupAndAggregate(ds, GroupSpec{
		GroupBy:   models.FieldDayOfWeek,
		Value:     models.FieldAge,
		Reduction: ReduceMean,
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Sunday", groups[0].Key)
	require.Equal(t, 30.0, groups[0].Value)
	require.Equal(t, "Monday", groups[1].Key)
	require.Equal(t, 30.0, groups[1].Value)
	require.Equal(t, 2, groups[1].Count)
}

func TestGroupAndAggregateValuesByGenre(t *testing.T) {
	ds := newDataset(t,
		row{title: "a", rating: "5", genres: []string{"Comedy"}},
		row{title: "b", rating: "2"},
		row{title: "c", rating: "3", genres: []string{"Comedy", "Drama"}},
	)

	groups, err := GroupAndAggregate(ds, GroupSpec{
		GroupBy:   "Comedy",
		Value:     models.FieldRating,
		Reduction: ReduceValues,
	})
	require.NoError(t, err)
	require.Equal(t, "1", groups[0].Key)
	require.Equal(t, []float64{5, 3}, groups[0].Values)
	require.Equal(t, "0", groups[1].Key)
	require.Equal(t, []float64{2}, groups[1].Values)
}

func TestGroupAndAggregateSchemaErrors(t *testing.T) {
	ds := ratings(t, "4")

	tests := []struct {
		name string
		spec GroupSpec
	}{
		{name: "unknown group field", spec: GroupSpec{GroupBy: "country", Reduction: ReduceCount}},
		{name: "numeric group field", spec: GroupSpec{GroupBy: models.FieldRating, Reduction: ReduceCount}},
		{name: "mean of categorical", spec: GroupSpec{GroupBy: models.FieldOccupation, Value: models.FieldMovieTitle, Reduction: ReduceMean}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GroupAndAggregate(ds, tt.spec)
			var schemaErr *models.SchemaError
			require.True(t, errors.As(err, &schemaErr))
		})
	}
}

func TestGroupAndAggregateUnderivedDayOfWeek(t *testing.T) {
	raw := &models.RawRatingRecord{MovieTitle: "a", Rating: "4", ReleaseDate: "1995-01-01"}
	ds, err := models.NewDataset([]*models.RatingRecord{raw.ToRecord(models.DefaultGenres)}, models.DefaultGenres)
	require.NoError(t, err)

	_, err = GroupAndAggregate(ds, GroupSpec{GroupBy: models.FieldDayOfWeek, Reduction: ReduceCount})
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, models.FieldDayOfWeek, schemaErr.Field)
}
