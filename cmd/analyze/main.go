package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"movie-ratings/internal/repository"
	"movie-ratings/internal/services"
	"movie-ratings/internal/views"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

// analyze renders views over a ratings CSV without a server or database.
func main() {
	csvPath := flag.String("csv", "data/movie_ratings.csv", "Ratings CSV file")
	view := flag.String("view", "", "View id or title to render (default: all views)")
	list := flag.Bool("list", false, "List the available views and exit")
	verbose := flag.Bool("v", false, "Log progress to stderr")
	flag.Parse()

	if *list {
		for _, d := range views.Catalog() {
			fmt.Printf("%-26s %-14s %s\n", d.ID, d.Kind, d.Title)
		}
		return
	}

	if err := run(context.Background(), os.Stdout, *csvPath, *view, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, csvPath, view string, verbose bool) error {
	logger := logging.NewNopLogger()
	if verbose {
		logger = logging.NewStructuredLogger("movie-ratings-analyze", "1.0.0", logging.DebugLevel)
		logger.SetOutput(os.Stderr)
	}
	metricsCollector := metrics.NewCollector("movie_ratings_analyze", prometheus.NewRegistry())

	datasets := services.NewDatasetService(repository.NewCSVSource(csvPath, nil, logger), "csv", logger, metricsCollector)
	if _, err := datasets.Load(ctx); err != nil {
		return err
	}
	viewService := services.NewViewService(datasets, logger, metricsCollector)

	var result interface{}
	if strings.TrimSpace(view) == "" {
		all, err := viewService.RenderAll(ctx)
		if err != nil {
			return err
		}
		result = all
	} else {
		one, err := viewService.Render(ctx, view)
		if err != nil {
			return err
		}
		result = one
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
