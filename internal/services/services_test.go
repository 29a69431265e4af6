package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"movie-ratings/internal/models"
	"movie-ratings/internal/repository"
	"movie-ratings/internal/views"
)

func TestDatasetServiceLoad(t *testing.T) {
	logger, m := testDeps(t)
	src := &fakeSource{records: sampleRecords()}
	svc := NewDatasetService(src, "csv", logger, m)

	_, err := svc.Current()
	require.ErrorIs(t, err, ErrDatasetNotLoaded)

	ds, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ds.Derived())
	require.Equal(t, "Sunday", ds.Record(0).DayOfWeek)
	require.Equal(t, "Friday", ds.Record(3).DayOfWeek)

	current, err := svc.Current()
	require.NoError(t, err)
	require.Same(t, ds, current)

	summary, err := svc.Summary()
	require.NoError(t, err)
	require.Equal(t, 4, summary.Records)
	require.Equal(t, 1, summary.MissingValues[models.FieldRating])
	require.Equal(t, 1, summary.MissingValues[models.FieldAge])
	require.Len(t, summary.Genres, models.GenreCount)

	require.Equal(t, 4.0, testutil.ToFloat64(m.DatasetRecords))
}

func TestDatasetServiceKeepsPreviousDatasetOnFailure(t *testing.T) {
	logger, m := testDeps(t)
	src := &fakeSource{records: sampleRecords()}
	svc := NewDatasetService(src, "csv", logger, m)

	first, err := svc.Load(context.Background())
	require.NoError(t, err)

	src.records = append(sampleRecords(), raw("Bad Date", "4", "sometime", "writer", "30"))
	_, err = svc.Load(context.Background())
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, models.FieldReleaseDate, schemaErr.Field)
	require.Equal(t, 4, schemaErr.Row)

	src.err = errors.New("disk gone")
	_, err = svc.Load(context.Background())
	require.Error(t, err)

	current, err := svc.Current()
	require.NoError(t, err)
	require.Same(t, first, current)
}

func TestViewServiceRender(t *testing.T) {
	logger, m := testDeps(t)
	datasets := NewDatasetService(&fakeSource{records: sampleRecords()}, "csv", logger, m)
	svc := NewViewService(datasets, logger, m)

	_, err := svc.Render(context.Background(), string(views.RatingsStatistics))
	require.ErrorIs(t, err, ErrDatasetNotLoaded)

	_, err = datasets.Load(context.Background())
	require.NoError(t, err)

	res, err := svc.Render(context.Background(), "Ratings Statistics")
	require.NoError(t, err)
	require.Equal(t, views.RatingsStatistics, res.View)
	require.Equal(t, 3, res.Triple.Count)
	require.Equal(t, views.Number(4), res.Triple.Mean)

	_, err = svc.Render(context.Background(), "nope")
	var unknown *models.UnknownViewError
	require.True(t, errors.As(err, &unknown))

	require.Equal(t, 1.0, testutil.ToFloat64(m.ViewRendersTotal.WithLabelValues(string(views.RatingsStatistics), "ok")))
	require.Len(t, svc.List(), 11)
}

func TestViewServiceRenderAll(t *testing.T) {
	logger, m := testDeps(t)
	datasets := NewDatasetService(&fakeSource{records: sampleRecords()}, "csv", logger, m)
	_, err := datasets.Load(context.Background())
	require.NoError(t, err)

	results, err := NewViewService(datasets, logger, m).RenderAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 11)
	for i, d := range views.Catalog() {
		require.Equal(t, d.ID, results[i].View)
	}
}

func TestImportServiceBatches(t *testing.T) {
	logger, m := testDeps(t)
	src := &fakeSource{records: sampleRecords()}
	repo := &fakeRepo{}
	svc := NewImportService(src, repo, logger, m)

	result, err := svc.Import(context.Background(), 3, false)
	require.NoError(t, err)
	require.Equal(t, 4, result.TotalRecords)
	require.Equal(t, 4, result.ImportedRecords)
	require.Equal(t, 2, result.Batches)
	require.Equal(t, 1, result.MissingRating)
	require.Len(t, repo.batches, 2)
	require.Len(t, repo.batches[0], 3)
	require.Len(t, repo.batches[1], 1)
	require.Equal(t, int64(4), result.LastID)
}

func TestImportServiceVerifiesLastRow(t *testing.T) {
	logger, m := testDeps(t)

	repo := &fakeRepo{lost: true}
	result, err := NewImportService(&fakeSource{records: sampleRecords()}, repo, logger, m).Import(context.Background(), 3, false)
	var notFound *repository.NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "4", notFound.ID)
	require.Equal(t, 4, result.ImportedRecords)
	require.Zero(t, result.LastID)
	require.Equal(t, 1.0, testutil.ToFloat64(m.ImportErrorsTotal.WithLabelValues("verify_error")))

	empty := &fakeRepo{}
	result, err = NewImportService(&fakeSource{records: []*models.RawRatingRecord{}}, empty, logger, m).Import(context.Background(), 3, false)
	require.NoError(t, err)
	require.Zero(t, result.LastID)
	require.Empty(t, empty.batches)
}

func TestImportServiceDryRunAndFailures(t *testing.T) {
	logger, m := testDeps(t)

	repo := &fakeRepo{}
	result, err := NewImportService(&fakeSource{records: sampleRecords()}, repo, logger, m).Import(context.Background(), 10, true)
	require.NoError(t, err)
	require.Zero(t, result.ImportedRecords)
	require.Empty(t, repo.batches)

	bad := append(sampleRecords(), raw("Bad Date", "4", "", "writer", "30"))
	_, err = NewImportService(&fakeSource{records: bad}, repo, logger, m).Import(context.Background(), 10, false)
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Empty(t, repo.batches)

	failing := &fakeRepo{failOn: 2}
	result, err = NewImportService(&fakeSource{records: sampleRecords()}, failing, logger, m).Import(context.Background(), 2, false)
	require.Error(t, err)
	require.Equal(t, 2, result.ImportedRecords)

	_, err = NewImportService(&fakeSource{}, repo, logger, m).Import(context.Background(), 0, false)
	require.Error(t, err)
}
