package models

import (
	"fmt"
	"strings"
	"time"
)

// releaseDateLayouts are tried in order when resolving a release date.
var releaseDateLayouts = []string{
	"02-Jan-2006",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseReleaseDate resolves a raw release date against the accepted layouts.
func ParseReleaseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty release date")
	}

	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised release date %q", s)
}

// DeriveDayOfWeek returns a Dataset whose records carry the English weekday
// name of their release date. The input is never modified. Calling it on an
// already derived Dataset returns that Dataset unchanged.
//
// Any record whose release date is missing or unparseable fails the whole
// derivation with a SchemaError.
func DeriveDayOfWeek(ds *Dataset) (*Dataset, error) {
	if ds == nil {
		return nil, &SchemaError{Field: FieldReleaseDate, Row: -1, Message: "no dataset"}
	}
	if ds.derived {
		return ds, nil
	}

	out := make([]*RatingRecord, len(ds.records))
	for i, r := range ds.records {
		date := r.ReleaseDate
		if r.RawReleaseDate != "" || date.IsZero() {
			parsed, err := ParseReleaseDate(r.RawReleaseDate)
			if err != nil {
				return nil, &SchemaError{Field: FieldReleaseDate, Row: i, Message: err.Error()}
			}
			date = parsed
		}

		rec := *r
		rec.ReleaseDate = date
		rec.DayOfWeek = date.Weekday().String()
		out[i] = &rec
	}

	return &Dataset{
		records: out,
		genres:  ds.genres,
		derived: true,
	}, nil
}
