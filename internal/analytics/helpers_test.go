package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"movie-ratings/internal/models"
)

type row struct {
	title      string
	rating     string
	date       string
	occupation string
	age        string
	genres     []string
}

func newDataset(t *testing.T, rows ...row) *models.Dataset {
	t.Helper()

	records := make([]*models.RatingRecord, 0, len(rows))
	for _, r := range rows {
		date := r.date
		if date == "" {
			date = "1995-01-01"
		}
		flags := make(map[string]string, len(r.genres))
		for _, g := range r.genres {
			flags[g] = "1"
		}
		raw := &models.RawRatingRecord{
			MovieTitle:  r.title,
			Rating:      r.rating,
			ReleaseDate: date,
			Occupation:  r.occupation,
			Age:         r.age,
			Genres:      flags,
		}
		records = append(records, raw.ToRecord(models.DefaultGenres))
	}

	ds, err := models.NewDataset(records, models.DefaultGenres)
	require.NoError(t, err)
	ds, err = models.DeriveDayOfWeek(ds)
	require.NoError(t, err)
	return ds
}

func ratings(t *testing.T, values ...string) *models.Dataset {
	t.Helper()
	rows := make([]row, len(values))
	for i, v := range values {
		rows[i] = row{title: "movie", rating: v, occupation: "student", age: "30"}
	}
	return newDataset(t, rows...)
}
