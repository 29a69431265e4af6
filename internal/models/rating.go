package models

import (
	"time"
)

// DefaultGenres are the thirteen genre flag columns carried by every record.
// Order is the column order of the source table and is used as the tiebreak
// when genres are ranked.
var DefaultGenres = []string{
	"Action",
	"Adventure",
	"Animation",
	"Children's",
	"Comedy",
	"Crime",
	"Documentary",
	"Drama",
	"Fantasy",
	"Film-Noir",
	"Horror",
	"Musical",
	"Mystery",
}

// GenreCount is the number of genre flag columns a dataset must carry.
const GenreCount = 13

// RatingRecord represents a single viewing event.
// NULL values are represented as nil pointers: a rating or age that could not
// be coerced to a number is missing, not zero.
type RatingRecord struct {
	ID             int64           `json:"id"`
	MovieTitle     string          `json:"movie_title"`
	Rating         *float64        `json:"rating"`
	RawReleaseDate string          `json:"-"`
	ReleaseDate    time.Time       `json:"release_date"`
	DayOfWeek      string          `json:"day_of_week,omitempty"`
	Occupation     string          `json:"occupation"`
	Age            *float64        `json:"age"`
	Genres         map[string]bool `json:"genres"`
}

// HasGenre reports whether the record has the named genre flag set.
// A flag absent from the record is treated as unset.
func (r *RatingRecord) HasGenre(name string) bool {
	return r.Genres[name]
}

// GenreFlagCount returns how many genre flags are set on the record.
func (r *RatingRecord) GenreFlagCount() int {
	n := 0
	for _, set := range r.Genres {
		if set {
			n++
		}
	}
	return n
}

// RawRatingRecord represents a single row as delivered by a record store
// (CSV file or database table). Values are kept as text so that coercion
// rules are applied in exactly one place.
type RawRatingRecord struct {
	ID          int64
	MovieTitle  string
	Rating      string
	ReleaseDate string
	Occupation  string
	Age         string
	Genres      map[string]string
}

// ToRecord converts a RawRatingRecord to a RatingRecord.
// Non-numeric rating and age values are coerced to missing. Genre flags are
// coerced to booleans; unrecognised flag values are unset. The release date
// is kept raw here and resolved by DeriveDayOfWeek.
func (r *RawRatingRecord) ToRecord(genres []string) *RatingRecord {
	rec := &RatingRecord{
		ID:             r.ID,
		MovieTitle:     r.MovieTitle,
		Rating:         CoerceNumeric(r.Rating),
		RawReleaseDate: r.ReleaseDate,
		Occupation:     r.Occupation,
		Age:            CoerceNumeric(r.Age),
		Genres:         make(map[string]bool, len(genres)),
	}

	for _, g := range genres {
		rec.Genres[g] = CoerceFlag(r.Genres[g])
	}

	return rec
}
