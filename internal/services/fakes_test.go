package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"movie-ratings/internal/models"
	"movie-ratings/internal/repository"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

type fakeSource struct {
	records []*models.RawRatingRecord
	err     error
	calls   int
}

func (f *fakeSource) LoadRecords(ctx context.Context) ([]*models.RawRatingRecord, error) {
	f.calls++
	return f.records, f.err
}

func (f *fakeSource) Genres() []string { return models.DefaultGenres }

type fakeRepo struct {
	fakeSource
	batches  [][]*models.RawRatingRecord
	failOn   int
	inserted int
	// lost drops rows after assigning IDs, like a commit that never landed.
	lost   bool
	stored map[int64]models.RawRatingRecord
}

func (f *fakeRepo) CreateRatingsBatch(ctx context.Context, records []*models.RawRatingRecord) error {
	if f.failOn > 0 && len(f.batches)+1 == f.failOn {
		return errors.New("connection reset")
	}
	if f.stored == nil {
		f.stored = make(map[int64]models.RawRatingRecord)
	}
	for _, rec := range records {
		f.inserted++
		rec.ID = int64(f.inserted)
		if !f.lost {
			f.stored[rec.ID] = *rec
		}
	}
	f.batches = append(f.batches, records)
	return nil
}

func (f *fakeRepo) GetRating(ctx context.Context, id int64) (*models.RawRatingRecord, error) {
	rec, ok := f.stored[id]
	if !ok {
		return nil, &repository.NotFoundError{Resource: "movie_rating", ID: strconv.FormatInt(id, 10)}
	}
	return &rec, nil
}

func (f *fakeRepo) CountRatings(ctx context.Context) (int, error) { return f.inserted, nil }

func (f *fakeRepo) HealthCheck(ctx context.Context) error { return nil }

func testDeps(t *testing.T) (*logging.StructuredLogger, *metrics.Collector) {
	t.Helper()
	return logging.NewNopLogger(), metrics.NewCollector("test", prometheus.NewRegistry())
}

func raw(title, rating, date, occupation, age string, genres ...string) *models.RawRatingRecord {
	flags := make(map[string]string, len(genres))
	for _, g := range genres {
		flags[g] = "1"
	}
	return &models.RawRatingRecord{
		MovieTitle:  title,
		Rating:      rating,
		ReleaseDate: date,
		Occupation:  occupation,
		Age:         age,
		Genres:      flags,
	}
}

func sampleRecords() []*models.RawRatingRecord {
	return []*models.RawRatingRecord{
		raw("Toy Story (1995)", "5", "01-Jan-1995", "student", "24", "Animation", "Comedy"),
		raw("GoldenEye (1995)", "3", "01-Jan-1995", "engineer", "35", "Action"),
		raw("Four Rooms (1995)", "", "02-Jan-1995", "artist", "x"),
		raw("Heat (1995)", "4", "15-Dec-1995", "student", "41", "Action", "Crime"),
	}
}
