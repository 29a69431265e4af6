package models

import (
	"fmt"
	"strings"
)

// Field names understood by Dataset accessors. Genre names are also valid
// dimension fields and resolve to "1" or "0".
const (
	FieldRating      = "rating"
	FieldAge         = "age"
	FieldMovieTitle  = "movie_title"
	FieldOccupation  = "occupation"
	FieldReleaseDate = "release_date"
	FieldDayOfWeek   = "day_of_week"
)

// Dataset is an ordered, read-only collection of rating records sharing one
// genre schema. Nothing mutates a Dataset after construction; the derived
// day-of-week column is produced by DeriveDayOfWeek as a new Dataset.
type Dataset struct {
	records []*RatingRecord
	genres  []string
	derived bool
}

// NewDataset builds a Dataset from records and the genre flag names they share.
// The genre schema must name exactly GenreCount distinct genres.
func NewDataset(records []*RatingRecord, genres []string) (*Dataset, error) {
	if len(genres) != GenreCount {
		return nil, &SchemaError{
			Field:   "genres",
			Row:     -1,
			Message: fmt.Sprintf("expected %d genre columns, got %d", GenreCount, len(genres)),
		}
	}

	seen := make(map[string]bool, len(genres))
	for _, g := range genres {
		if strings.TrimSpace(g) == "" {
			return nil, &SchemaError{Field: "genres", Row: -1, Message: "empty genre column name"}
		}
		if seen[g] {
			return nil, &SchemaError{Field: g, Row: -1, Message: "duplicate genre column"}
		}
		seen[g] = true
	}

	for i, r := range records {
		if r == nil {
			return nil, &SchemaError{Field: "record", Row: i, Message: "nil record"}
		}
	}

	return &Dataset{
		records: append([]*RatingRecord(nil), records...),
		genres:  append([]string(nil), genres...),
	}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the record at index i. Callers must treat it as read-only.
func (d *Dataset) Record(i int) *RatingRecord { return d.records[i] }

// Genres returns the genre column names in schema order.
func (d *Dataset) Genres() []string { return append([]string(nil), d.genres...) }

// Derived reports whether the day-of-week column has been computed.
func (d *Dataset) Derived() bool { return d.derived }

// IsGenre reports whether name is one of the dataset's genre columns.
func (d *Dataset) IsGenre(name string) bool {
	for _, g := range d.genres {
		if g == name {
			return true
		}
	}
	return false
}

// HasDimension reports whether field can be used as a categorical key.
func (d *Dataset) HasDimension(field string) bool {
	switch field {
	case FieldMovieTitle, FieldOccupation, FieldReleaseDate:
		return true
	case FieldDayOfWeek:
		return d.derived
	}
	return d.IsGenre(field)
}

// HasMeasure reports whether field is a numeric column.
func (d *Dataset) HasMeasure(field string) bool {
	return field == FieldRating || field == FieldAge
}

// Dimension returns the categorical value of field for record i.
// The boolean is false when the value is missing.
func (d *Dataset) Dimension(i int, field string) (string, bool) {
	r := d.records[i]
	switch field {
	case FieldMovieTitle:
		return r.MovieTitle, r.MovieTitle != ""
	case FieldOccupation:
		return r.Occupation, r.Occupation != ""
	case FieldDayOfWeek:
		return r.DayOfWeek, r.DayOfWeek != ""
	case FieldReleaseDate:
		if r.ReleaseDate.IsZero() {
			return r.RawReleaseDate, r.RawReleaseDate != ""
		}
		return r.ReleaseDate.Format("2006-01-02"), true
	}

	if d.IsGenre(field) {
		if r.HasGenre(field) {
			return "1", true
		}
		return "0", true
	}
	return "", false
}

// Measure returns the coerced numeric value of field for record i.
// The boolean is false when the value is missing.
func (d *Dataset) Measure(i int, field string) (float64, bool) {
	r := d.records[i]
	var v *float64
	switch field {
	case FieldRating:
		v = r.Rating
	case FieldAge:
		v = r.Age
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Values returns the non-missing values of a numeric field in record order.
func (d *Dataset) Values(field string) []float64 {
	values := make([]float64, 0, len(d.records))
	for i := range d.records {
		if v, ok := d.Measure(i, field); ok {
			values = append(values, v)
		}
	}
	return values
}

// MissingCount returns the number of records whose numeric field is missing.
func (d *Dataset) MissingCount(field string) int {
	return len(d.records) - len(d.Values(field))
}
