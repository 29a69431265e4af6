package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"movie-ratings/internal/models"
)

func TestTopByGlobalMax(t *testing.T) {
	ds := newDataset(t,
		row{title: "A", rating: "5"},
		row{title: "B", rating: "4"},
		row{title: "C", rating: "5"},
		row{title: "D", rating: "3"},
		row{title: "E", rating: "5"},
		row{title: "F", rating: "4"},
	)

	top, err := TopByGlobalMax(ds, models.FieldRating, 10)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 4}, top)

	truncated, err := TopByGlobalMax(ds, models.FieldRating, 2)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, truncated)
}

func TestTopByGlobalMaxIgnoresMissing(t *testing.T) {
	ds := newDataset(t,
		row{title: "A", rating: "x"},
		row{title: "B", rating: "2"},
	)

	top, err := TopByGlobalMax(ds, models.FieldRating, 10)
	require.NoError(t, err)
	require.Equal(t, []int{1}, top)

	none, err := TopByGlobalMax(ratings(t, "bad"), models.FieldRating, 10)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTopByGlobalMaxRejectsCategorical(t *testing.T) {
	_, err := TopByGlobalMax(ratings(t, "1"), models.FieldMovieTitle, 10)
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
}
