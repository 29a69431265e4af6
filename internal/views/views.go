// Package views maps each fixed view identifier to the analytics it runs and
// the shape of result it returns. The set of views is closed: an identifier
// outside it is a configuration error, never silently mapped to a default.
package views

import (
	"movie-ratings/internal/models"
)

// ViewID identifies one view.
type ViewID string

const (
	DaysVsAge             ViewID = "days_vs_age"
	RatingsDistribution   ViewID = "ratings_distribution"
	OutlierDetection      ViewID = "outlier_detection"
	RatingsHistogram      ViewID = "ratings_histogram"
	ReleaseDateVsRating   ViewID = "release_date_vs_rating"
	TopMoviesByRating     ViewID = "top_10_movies_by_rating"
	DayOfWeekDistribution ViewID = "day_of_week_distribution"
	RatingsStatistics     ViewID = "ratings_statistics"
	MostActiveUsers       ViewID = "most_active_users"
	GenreDistribution     ViewID = "genre_distribution"
	InteractiveScatter    ViewID = "interactive_scatter"
)

// View parameters.
const (
	TopMoviesLimit   = 10
	MostActiveLimit  = 15
	HistogramBins    = 5
	OutlierThreshold = 3.0
)

// Descriptor describes one entry of the view catalog.
type Descriptor struct {
	ID    ViewID `json:"id"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`
}

type definition struct {
	Descriptor
	build func(ds *models.Dataset) (*Result, error)
}

// catalog is ordered as presented to the analyst.
var catalog = []definition{
	{Descriptor{DaysVsAge, "Days vs Age", KindSeries}, buildDaysVsAge},
	{Descriptor{RatingsDistribution, "Ratings Distribution", KindSeries}, buildRatingsDistribution},
	{Descriptor{OutlierDetection, "Outlier Detection", KindTable}, buildOutlierDetection},
	{Descriptor{RatingsHistogram, "Ratings Histogram", KindSeries}, buildRatingsHistogram},
	{Descriptor{ReleaseDateVsRating, "Release Date vs Rating", KindSeries}, buildReleaseDateVsRating},
	{Descriptor{TopMoviesByRating, "Top 10 Movies by Rating", KindSeries}, buildTopMovies},
	{Descriptor{DayOfWeekDistribution, "Day of Week Distribution", KindSeries}, buildDayOfWeekDistribution},
	{Descriptor{RatingsStatistics, "Ratings Statistics", KindScalarTriple}, buildRatingsStatistics},
	{Descriptor{MostActiveUsers, "Most Active Users", KindSeries}, buildMostActiveUsers},
	{Descriptor{GenreDistribution, "Genre Distribution", KindSeries}, buildGenreDistribution},
	{Descriptor{InteractiveScatter, "Interactive Scatter Plot", KindSeries}, buildInteractiveScatter},
}

// Catalog returns every view in presentation order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	for i, def := range catalog {
		out[i] = def.Descriptor
	}
	return out
}

// Resolve maps an identifier, or a view's display title, to its ViewID.
func Resolve(name string) (ViewID, error) {
	def, err := lookup(name)
	if err != nil {
		return "", err
	}
	return def.ID, nil
}

func lookup(name string) (*definition, error) {
	for i := range catalog {
		if string(catalog[i].ID) == name || catalog[i].Title == name {
			return &catalog[i], nil
		}
	}
	return nil, &models.UnknownViewError{View: name}
}

// Dispatch computes the named view over ds. Every call recomputes from the
// dataset; nothing is cached between calls. The day-of-week derivation is
// applied defensively and is a no-op on an already derived dataset.
func Dispatch(ds *models.Dataset, name string) (*Result, error) {
	def, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, &models.SchemaError{Field: "dataset", Row: -1, Message: "no dataset loaded"}
	}

	ds, err = models.DeriveDayOfWeek(ds)
	if err != nil {
		return nil, err
	}

	res, err := def.build(ds)
	if err != nil {
		return nil, err
	}

	res.View = def.ID
	res.Title = def.Title
	res.Kind = def.Kind
	return res, nil
}
