package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"movie-ratings/internal/models"
	"movie-ratings/internal/repository"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

// ErrDatasetNotLoaded is returned before the first successful Load.
var ErrDatasetNotLoaded = errors.New("dataset not loaded")

// DatasetProvider hands out the current dataset.
type DatasetProvider interface {
	Current() (*models.Dataset, error)
}

// DatasetSummary describes the loaded dataset.
type DatasetSummary struct {
	Source        string         `json:"source"`
	Records       int            `json:"records"`
	Genres        []string       `json:"genres"`
	Derived       bool           `json:"derived"`
	MissingValues map[string]int `json:"missing_values"`
	LoadedAt      time.Time      `json:"loaded_at"`
}

// DatasetService loads rating records once, builds the dataset and applies
// the day-of-week derivation. Views read the derived dataset; a reload
// swaps it atomically.
type DatasetService struct {
	source     repository.RecordSource
	sourceName string
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector

	mu       sync.RWMutex
	dataset  *models.Dataset
	loadedAt time.Time
}

// NewDatasetService creates a new dataset service
func NewDatasetService(source repository.RecordSource, sourceName string, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *DatasetService {
	return &DatasetService{
		source:     source,
		sourceName: sourceName,
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// Load reads every record from the source and replaces the current dataset.
// On failure the previous dataset, if any, stays in place.
func (s *DatasetService) Load(ctx context.Context) (*models.Dataset, error) {
	timer := s.metrics.NewTimer(s.metrics.DatasetLoadDuration)

	s.logger.Info(ctx, "[DATASET_LOAD] Loading rating records", logging.Fields{
		"source": s.sourceName,
	})

	raw, err := s.source.LoadRecords(ctx)
	if err != nil {
		s.logger.Error(ctx, "[DATASET_LOAD_ERROR] Failed to read records", logging.Fields{
			"source": s.sourceName,
		}, err)
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	ds, err := BuildDataset(raw, s.source.Genres())
	if err != nil {
		s.logger.Error(ctx, "[DATASET_SCHEMA_ERROR] Records do not form a valid dataset", logging.Fields{
			"source": s.sourceName,
			"count":  len(raw),
		}, err)
		return nil, err
	}

	missing := map[string]int{
		models.FieldRating: ds.MissingCount(models.FieldRating),
		models.FieldAge:    ds.MissingCount(models.FieldAge),
	}

	s.mu.Lock()
	s.dataset = ds
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	s.metrics.SetDatasetStats(ds.Len(), missing)
	duration := timer.ObserveDuration()

	s.logger.Info(ctx, "[DATASET_READY] Dataset loaded and derived", logging.Fields{
		"source":         s.sourceName,
		"records":        ds.Len(),
		"missing_rating": missing[models.FieldRating],
		"missing_age":    missing[models.FieldAge],
		"duration_ms":    duration.Milliseconds(),
	})

	return ds, nil
}

// Current returns the loaded dataset.
func (s *DatasetService) Current() (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.dataset, nil
}

// Summary describes the loaded dataset.
func (s *DatasetService) Summary() (*DatasetSummary, error) {
	s.mu.RLock()
	ds, loadedAt := s.dataset, s.loadedAt
	s.mu.RUnlock()

	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}

	return &DatasetSummary{
		Source:  s.sourceName,
		Records: ds.Len(),
		Genres:  ds.Genres(),
		Derived: ds.Derived(),
		MissingValues: map[string]int{
			models.FieldRating: ds.MissingCount(models.FieldRating),
			models.FieldAge:    ds.MissingCount(models.FieldAge),
		},
		LoadedAt: loadedAt,
	}, nil
}

// BuildDataset coerces raw rows and applies the day-of-week derivation.
func BuildDataset(raw []*models.RawRatingRecord, genres []string) (*models.Dataset, error) {
	records := make([]*models.RatingRecord, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, &models.SchemaError{Field: "record", Row: i, Message: "nil record"}
		}
		records[i] = r.ToRecord(genres)
	}

	ds, err := models.NewDataset(records, genres)
	if err != nil {
		return nil, err
	}

	return models.DeriveDayOfWeek(ds)
}
