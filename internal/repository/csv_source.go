package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"movie-ratings/internal/models"
	"movie-ratings/pkg/logging"
)

// Canonical CSV column names after header normalisation.
const (
	columnID          = "id"
	columnMovieTitle  = "movie_title"
	columnRating      = "rating"
	columnReleaseDate = "release_date"
	columnOccupation  = "occupation"
	columnAge         = "age"
)

var requiredColumns = []string{
	columnMovieTitle,
	columnRating,
	columnReleaseDate,
	columnOccupation,
	columnAge,
}

// NormalizeColumn maps a header cell to its canonical form: trimmed,
// lower-case, with runs of spaces replaced by a single underscore.
// "movie title" and "Movie_Title" both become "movie_title".
func NormalizeColumn(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// CSVSource reads rating rows from a delimited file with a header row.
type CSVSource struct {
	path   string
	genres []string
	logger *logging.StructuredLogger
}

// NewCSVSource creates a source for path. A nil genres slice selects
// models.DefaultGenres.
func NewCSVSource(path string, genres []string, logger *logging.StructuredLogger) *CSVSource {
	if len(genres) == 0 {
		genres = models.DefaultGenres
	}
	return &CSVSource{
		path:   path,
		genres: append([]string(nil), genres...),
		logger: logger,
	}
}

// Genres returns the configured genre flag columns.
func (s *CSVSource) Genres() []string {
	return append([]string(nil), s.genres...)
}

// LoadRecords reads the whole file.
func (s *CSVSource) LoadRecords(ctx context.Context) ([]*models.RawRatingRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ratings file: %w", err)
	}
	defer f.Close()

	records, err := ReadRecords(f, s.genres)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "[CSV_LOAD] Ratings file read", logging.Fields{
		"path":  s.path,
		"count": len(records),
	})

	return records, nil
}

// ReadRecords parses CSV from r. Every cell is read as text. A header that
// lacks a required column or a genre column yields a *models.SchemaError.
// A header with no data rows is a valid empty dataset.
func ReadRecords(r io.Reader, genres []string) ([]*models.RawRatingRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings csv: %w", err)
	}

	peek := csv.NewReader(bytes.NewReader(data))
	peek.FieldsPerRecord = -1
	header, err := peek.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse ratings csv header: %w", err)
	}

	index, genreIndex, err := columnIndex(header, genres)
	if err != nil {
		return nil, err
	}
	if _, err := peek.Read(); errors.Is(err, io.EOF) {
		return []*models.RawRatingRecord{}, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse ratings csv: %w", df.Err)
	}

	// Records() includes the header as its first row.
	rows := df.Records()
	records := make([]*models.RawRatingRecord, 0, len(rows))
	for n, row := range rows[1:] {
		rec := &models.RawRatingRecord{
			ID:          int64(n + 1),
			MovieTitle:  row[index[columnMovieTitle]],
			Rating:      row[index[columnRating]],
			ReleaseDate: row[index[columnReleaseDate]],
			Occupation:  row[index[columnOccupation]],
			Age:         row[index[columnAge]],
			Genres:      make(map[string]string, len(genres)),
		}
		if i, ok := index[columnID]; ok {
			if id, err := strconv.ParseInt(strings.TrimSpace(row[i]), 10, 64); err == nil {
				rec.ID = id
			}
		}
		for j, g := range genres {
			rec.Genres[g] = row[genreIndex[j]]
		}
		records = append(records, rec)
	}

	return records, nil
}

// columnIndex locates the required and genre columns in a header row.
func columnIndex(header, genres []string) (map[string]int, []int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := NormalizeColumn(name)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	if _, ok := index[columnMovieTitle]; !ok {
		if i, ok := index["title"]; ok {
			index[columnMovieTitle] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, &models.SchemaError{Field: col, Row: -1, Message: "missing required column"}
		}
	}

	genreIndex := make([]int, len(genres))
	for j, g := range genres {
		i, ok := index[NormalizeColumn(g)]
		if !ok {
			return nil, nil, &models.SchemaError{Field: g, Row: -1, Message: "missing genre column"}
		}
		genreIndex[j] = i
	}

	return index, genreIndex, nil
}
