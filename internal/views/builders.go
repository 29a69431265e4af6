package views

import (
	"strconv"

	"movie-ratings/internal/analytics"
	"movie-ratings/internal/models"
)

func buildDaysVsAge(ds *models.Dataset) (*Result, error) {
	groups, err := analytics.GroupAndAggregate(ds, analytics.GroupSpec{
		GroupBy:   models.FieldDayOfWeek,
		Value:     models.FieldAge,
		Reduction: analytics.ReduceMean,
	})
	if err != nil {
		return nil, err
	}

	return seriesResult(&Series{
		Name:   "Days VS Age",
		Chart:  "bar",
		XAxis:  "Days",
		YAxis:  "age",
		Points: groupPoints(groups),
	}), nil
}

func buildRatingsDistribution(ds *models.Dataset) (*Result, error) {
	values := ds.Values(models.FieldRating)
	s := &Series{
		Name:   "Ratings",
		Chart:  "box",
		YAxis:  "Ratings",
		Values: values,
	}
	if len(values) > 0 {
		s.Box = newBoxPlot(analytics.Box(values, true))
	}
	return seriesResult(s), nil
}

func buildOutlierDetection(ds *models.Dataset) (*Result, error) {
	report := analytics.DetectOutliers(ds, OutlierThreshold)

	genres := ds.Genres()
	table := &Table{
		Columns: recordColumns(genres),
		Rows:    make([][]string, 0, len(report.Outliers)),
	}
	for _, i := range report.Outliers {
		table.Rows = append(table.Rows, recordRow(ds.Record(i), genres, report.ZScores[i]))
	}

	dist := &Series{
		Name:  "Ratings",
		Chart: "box",
		XAxis: "rating",
		YAxis: "Ratings",
		Overlay: &Series{
			Name:   "in_range",
			Chart:  "strip",
			XAxis:  "rating",
			Values: report.InRange,
		},
	}
	if report.Box.Count > 0 {
		dist.Box = newBoxPlot(report.Box)
	}

	return &Result{
		Empty:  report.Box.Count == 0,
		Table:  table,
		Series: dist,
	}, nil
}

func buildRatingsHistogram(ds *models.Dataset) (*Result, error) {
	values := ds.Values(models.FieldRating)
	return seriesResult(&Series{
		Name:   "Ratings",
		Chart:  "histogram",
		XAxis:  "rating",
		YAxis:  "Ratings",
		Values: values,
		Bins:   newBins(analytics.Histogram(values, HistogramBins)),
	}), nil
}

func buildReleaseDateVsRating(ds *models.Dataset) (*Result, error) {
	points := make([]Point, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		rating, ok := ds.Measure(i, models.FieldRating)
		if !ok {
			continue
		}
		date, _ := ds.Dimension(i, models.FieldReleaseDate)
		points = append(points, Point{Label: date, Value: Number(rating)})
	}

	return seriesResult(&Series{
		Name:   "Release Date vs Rating",
		Chart:  "scatter",
		XAxis:  "rating",
		YAxis:  "release date",
		Points: points,
	}), nil
}

func buildTopMovies(ds *models.Dataset) (*Result, error) {
	top, err := analytics.TopByGlobalMax(ds, models.FieldRating, TopMoviesLimit)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(top))
	for _, i := range top {
		rating, _ := ds.Measure(i, models.FieldRating)
		points = append(points, Point{Label: ds.Record(i).MovieTitle, Value: Number(rating)})
	}

	return seriesResult(&Series{
		Name:   "Top Movies",
		Chart:  "bar",
		XAxis:  "movie title",
		YAxis:  "rating",
		Points: points,
	}), nil
}

func buildDayOfWeekDistribution(ds *models.Dataset) (*Result, error) {
	groups, err := analytics.GroupAndAggregate(ds, analytics.GroupSpec{
		GroupBy:   models.FieldDayOfWeek,
		Reduction: analytics.ReduceCount,
	})
	if err != nil {
		return nil, err
	}

	return seriesResult(&Series{
		Name:   "Day of the Week Distribution",
		Chart:  "histogram",
		XAxis:  "Days",
		YAxis:  "Count",
		Points: groupPoints(groups),
	}), nil
}

func buildRatingsStatistics(ds *models.Dataset) (*Result, error) {
	summary, err := analytics.Describe(ds, models.FieldRating)
	if err != nil {
		return nil, err
	}

	return &Result{
		Empty: summary.Empty(),
		Triple: &ScalarTriple{
			Field:  summary.Field,
			Count:  summary.Count,
			Mean:   Number(summary.Mean),
			Median: Number(summary.Median),
			StdDev: Number(summary.StdDev),
		},
	}, nil
}

func buildMostActiveUsers(ds *models.Dataset) (*Result, error) {
	groups, err := analytics.GroupAndAggregate(ds, analytics.GroupSpec{
		GroupBy:   models.FieldOccupation,
		Value:     models.FieldMovieTitle,
		Reduction: analytics.ReduceCount,
		SortBy:    analytics.SortValueDesc,
		Limit:     MostActiveLimit,
	})
	if err != nil {
		return nil, err
	}

	return seriesResult(&Series{
		Name:   "Most Active Users by Movie Rental",
		Chart:  "line",
		XAxis:  "occupation",
		YAxis:  "Movie_count",
		Points: groupPoints(groups),
	}), nil
}

func buildGenreDistribution(ds *models.Dataset) (*Result, error) {
	totals := analytics.GenreTotals(ds)

	points := make([]Point, 0, len(totals))
	for _, g := range totals {
		points = append(points, Point{Label: g.Genre, Value: Number(g.Total)})
	}

	res := seriesResult(&Series{
		Name:   "Genre by Movie Count",
		Chart:  "bar",
		XAxis:  "Movie Genre",
		YAxis:  "Genre Count",
		Points: points,
	})
	res.Empty = ds.Len() == 0
	return res, nil
}

func buildInteractiveScatter(ds *models.Dataset) (*Result, error) {
	points := make([]Point, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		rating, ok := ds.Measure(i, models.FieldRating)
		if !ok {
			continue
		}
		occupation, _ := ds.Dimension(i, models.FieldOccupation)
		points = append(points, Point{Label: occupation, Value: Number(rating)})
	}

	return seriesResult(&Series{
		Name:   "Interactive Scatter Plot",
		Chart:  "scatter",
		XAxis:  "Occupation",
		YAxis:  "Rating",
		Points: points,
	}), nil
}

func seriesResult(s *Series) *Result {
	return &Result{
		Empty:  len(s.Points) == 0 && len(s.Values) == 0,
		Series: s,
	}
}

func groupPoints(groups []analytics.Group) []Point {
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, Point{Label: g.Key, Value: Number(g.Value)})
	}
	return points
}

// recordColumns lists every field of a record, genre flags in schema
// order, then the z-score.
func recordColumns(genres []string) []Column {
	cols := []Column{
		{Key: models.FieldMovieTitle, Label: "movie title", Type: "text"},
		{Key: models.FieldRating, Label: "rating", Type: "number"},
		{Key: models.FieldReleaseDate, Label: "release date", Type: "date"},
		{Key: models.FieldDayOfWeek, Label: "Days", Type: "text"},
		{Key: models.FieldOccupation, Label: "occupation", Type: "text"},
		{Key: models.FieldAge, Label: "age", Type: "number"},
	}
	for _, g := range genres {
		cols = append(cols, Column{Key: g, Label: g, Type: "flag"})
	}
	return append(cols, Column{Key: "z_score", Label: "z-score", Type: "number"})
}

func recordRow(r *models.RatingRecord, genres []string, z float64) []string {
	row := []string{
		r.MovieTitle,
		formatOptional(r.Rating),
		r.ReleaseDate.Format("2006-01-02"),
		r.DayOfWeek,
		r.Occupation,
		formatOptional(r.Age),
	}
	for _, g := range genres {
		flag := "0"
		if r.HasGenre(g) {
			flag = "1"
		}
		row = append(row, flag)
	}
	return append(row, strconv.FormatFloat(z, 'f', 4, 64))
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
