package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"movie-ratings/internal/models"
	"movie-ratings/pkg/database"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

// RecordSource delivers raw rating rows. Values stay as text; coercion
// happens when the rows are converted into a models.Dataset.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]*models.RawRatingRecord, error)
	// Genres names the genre flag columns carried by every row.
	Genres() []string
}

// RatingRepository provides data access for rating records stored in
// PostgreSQL.
type RatingRepository interface {
	RecordSource

	CreateRatingsBatch(ctx context.Context, records []*models.RawRatingRecord) error
	GetRating(ctx context.Context, id int64) (*models.RawRatingRecord, error)
	CountRatings(ctx context.Context) (int, error)

	HealthCheck(ctx context.Context) error
}

// ratingRow mirrors one movie_ratings row. Rating, age and release date are
// stored as imported so that coercion rules are applied on load, never at
// write time.
type ratingRow struct {
	ID          int64          `db:"id"`
	MovieTitle  string         `db:"movie_title"`
	Rating      sql.NullString `db:"rating"`
	ReleaseDate sql.NullString `db:"release_date"`
	Occupation  sql.NullString `db:"occupation"`
	Age         sql.NullString `db:"age"`
	Genres      pq.StringArray `db:"genres"`
}

func (r *ratingRow) toRaw() *models.RawRatingRecord {
	raw := &models.RawRatingRecord{
		ID:          r.ID,
		MovieTitle:  r.MovieTitle,
		Rating:      r.Rating.String,
		ReleaseDate: r.ReleaseDate.String,
		Occupation:  r.Occupation.String,
		Age:         r.Age.String,
		Genres:      make(map[string]string, len(r.Genres)),
	}
	for _, g := range r.Genres {
		raw.Genres[g] = "1"
	}
	return raw
}

// setGenres lists the genre columns flagged on raw, in schema order.
func setGenres(raw *models.RawRatingRecord, genres []string) []string {
	set := make([]string, 0, len(genres))
	for _, g := range genres {
		if models.CoerceFlag(raw.Genres[g]) {
			set = append(set, g)
		}
	}
	return set
}

const selectRatings = `
	SELECT id, movie_title, rating, release_date, occupation, age, genres
	FROM movie_ratings
`

// ratingRepository implements RatingRepository
type ratingRepository struct {
	db      *database.PostgresDB
	genres  []string
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewRatingRepository creates a PostgreSQL backed rating repository.
// A nil genres slice selects models.DefaultGenres.
func NewRatingRepository(db *database.PostgresDB, genres []string, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) RatingRepository {
	if len(genres) == 0 {
		genres = models.DefaultGenres
	}
	return &ratingRepository{
		db:      db,
		genres:  append([]string(nil), genres...),
		logger:  logger,
		metrics: metricsCollector,
	}
}

func (r *ratingRepository) Genres() []string {
	return append([]string(nil), r.genres...)
}

// LoadRecords returns every stored rating in insertion order.
func (r *ratingRepository) LoadRecords(ctx context.Context) ([]*models.RawRatingRecord, error) {
	var rows []ratingRow
	if err := r.db.SelectContext(ctx, "load_ratings", &rows, selectRatings+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	records := make([]*models.RawRatingRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toRaw()
	}

	r.logger.Debug(ctx, "[REPO_LOAD] Ratings loaded", logging.Fields{
		"count": len(records),
	})

	return records, nil
}

// GetRating retrieves one stored rating by ID
func (r *ratingRepository) GetRating(ctx context.Context, id int64) (*models.RawRatingRecord, error) {
	var row ratingRow
	err := r.db.GetContext(ctx, "get_rating", &row, selectRatings+" WHERE id = $1", id)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "movie_rating",
			ID:       strconv.FormatInt(id, 10),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return row.toRaw(), nil
}

// CreateRatingsBatch inserts records in a single transaction. IDs assigned
// by the database are written back to the records.
func (r *ratingRepository) CreateRatingsBatch(ctx context.Context, records []*models.RawRatingRecord) error {
	if len(records) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		r.metrics.ImportBatchSize.Observe(float64(len(records)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Batch insert completed", logging.Fields{
			"count":       len(records),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO movie_ratings (
			movie_title, rating, release_date, occupation, age, genres
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		err := stmt.QueryRowxContext(ctx,
			rec.MovieTitle,
			nullable(rec.Rating),
			nullable(rec.ReleaseDate),
			nullable(rec.Occupation),
			nullable(rec.Age),
			pq.Array(setGenres(rec, r.genres)),
		).Scan(&rec.ID)
		if err != nil {
			return fmt.Errorf("failed to insert rating: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.ImportRecordsTotal.Add(float64(len(records)))

	return nil
}

// CountRatings returns the number of stored ratings
func (r *ratingRepository) CountRatings(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, "count_ratings", &n, "SELECT COUNT(*) FROM movie_ratings"); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}

// HealthCheck performs a repository health check
func (r *ratingRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
