package services

import (
	"context"
	"fmt"
	"time"

	"movie-ratings/internal/models"
	"movie-ratings/internal/repository"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

// ImportService copies rating rows from a record source into PostgreSQL.
type ImportService struct {
	source  repository.RecordSource
	repo    repository.RatingRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// ImportResult contains import statistics
type ImportResult struct {
	TotalRecords    int
	ImportedRecords int
	Batches         int
	MissingRating   int
	MissingAge      int
	// LastID is the stored ID of the final row, read back after the last
	// batch commits.
	LastID   int64
	Duration time.Duration
}

// NewImportService creates a new import service
func NewImportService(source repository.RecordSource, repo repository.RatingRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ImportService {
	return &ImportService{
		source:  source,
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Import reads every row from the source, checks that the rows form a valid
// dataset, and writes them in batches of batchSize. Nothing is written when
// validation fails. With dryRun set the rows are validated only.
func (s *ImportService) Import(ctx context.Context, batchSize int, dryRun bool) (*ImportResult, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	startTime := time.Now()

	s.logger.Info(ctx, "[IMPORT_START] Starting rating import", logging.Fields{
		"batch_size": batchSize,
		"dry_run":    dryRun,
		"stage":      "INITIALIZATION",
	})

	raw, err := s.source.LoadRecords(ctx)
	if err != nil {
		s.metrics.RecordImportError("read_error")
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	ds, err := BuildDataset(raw, s.source.Genres())
	if err != nil {
		s.metrics.RecordImportError("schema_error")
		s.logger.Error(ctx, "[IMPORT_SCHEMA_ERROR] Records rejected", logging.Fields{
			"count": len(raw),
			"stage": "VALIDATION",
		}, err)
		return nil, err
	}

	result := &ImportResult{
		TotalRecords:  len(raw),
		MissingRating: ds.MissingCount(models.FieldRating),
		MissingAge:    ds.MissingCount(models.FieldAge),
	}

	s.logger.Info(ctx, "[IMPORT_VALIDATED] Records validated", logging.Fields{
		"total_records":  result.TotalRecords,
		"missing_rating": result.MissingRating,
		"missing_age":    result.MissingAge,
		"stage":          "VALIDATION",
	})

	if dryRun {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	for start := 0; start < len(raw); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + batchSize
		if end > len(raw) {
			end = len(raw)
		}

		if err := s.repo.CreateRatingsBatch(ctx, raw[start:end]); err != nil {
			s.metrics.RecordImportError("batch_error")
			s.logger.Error(ctx, "[IMPORT_BATCH_ERROR] Batch insert failed", logging.Fields{
				"batch_start": start,
				"batch_end":   end,
				"stage":       "WRITE",
			}, err)
			return result, fmt.Errorf("failed to write batch %d-%d: %w", start, end, err)
		}

		result.ImportedRecords += end - start
		result.Batches++
	}

	if len(raw) > 0 {
		if err := s.verifyStored(ctx, raw[len(raw)-1]); err != nil {
			s.metrics.RecordImportError("verify_error")
			s.logger.Error(ctx, "[IMPORT_VERIFY_ERROR] Last imported row not readable", logging.Fields{
				"id":    raw[len(raw)-1].ID,
				"stage": "VERIFY",
			}, err)
			return result, err
		}
		result.LastID = raw[len(raw)-1].ID
	}

	result.Duration = time.Since(startTime)
	s.metrics.ImportDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[IMPORT_COMPLETE] Rating import completed", logging.Fields{
		"total_records":    result.TotalRecords,
		"imported_records": result.ImportedRecords,
		"batches":          result.Batches,
		"last_id":          result.LastID,
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

// verifyStored reads back the row written for rec and checks that it is the
// same movie.
func (s *ImportService) verifyStored(ctx context.Context, rec *models.RawRatingRecord) error {
	stored, err := s.repo.GetRating(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to verify import: %w", err)
	}
	if stored.MovieTitle != rec.MovieTitle {
		return fmt.Errorf("failed to verify import: row %d holds %q, want %q", rec.ID, stored.MovieTitle, rec.MovieTitle)
	}
	return nil
}
