package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"movie-ratings/internal/config"
	"movie-ratings/internal/repository"
	"movie-ratings/internal/services"
	"movie-ratings/pkg/database"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	csvPath := flag.String("csv", cfg.Dataset.CSVPath, "Ratings CSV file to import")
	batchSize := flag.Int("batch-size", cfg.Import.BatchSize, "Number of records written per transaction")
	dryRun := flag.Bool("dry-run", false, "Validate the file without writing to the database")
	flag.Parse()

	if *batchSize <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid batch size: %d\n", *batchSize)
		os.Exit(1)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewStructuredLogger("movie-ratings-importer", "1.0.0", logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "[IMPORTER_START] Starting rating import", logging.Fields{
		"csv":        *csvPath,
		"batch_size": *batchSize,
		"dry_run":    *dryRun,
	})

	metricsCollector := metrics.NewCollector("movie_ratings_importer", prometheus.NewRegistry())

	source := repository.NewCSVSource(*csvPath, cfg.Dataset.Genres, logger)

	var repo repository.RatingRepository
	if !*dryRun {
		db, err := database.NewPostgresDB(ctx, cfg.Database.PostgresConfig(), logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[IMPORTER_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()

		repo = repository.NewRatingRepository(db, cfg.Dataset.Genres, logger, metricsCollector)
	}

	importService := services.NewImportService(source, repo, logger, metricsCollector)

	result, err := importService.Import(ctx, *batchSize, *dryRun)
	if err != nil {
		logger.Error(ctx, "[IMPORT_ERROR] Import failed", logging.Fields{}, err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 80))
	if *dryRun {
		fmt.Println("VALIDATION COMPLETE (dry run)")
	} else {
		fmt.Println("IMPORT COMPLETE")
	}
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Total Records:    %d\n", result.TotalRecords)
	fmt.Printf("Imported Records: %d\n", result.ImportedRecords)
	fmt.Printf("Batches:          %d\n", result.Batches)
	fmt.Printf("Missing Ratings:  %d\n", result.MissingRating)
	fmt.Printf("Missing Ages:     %d\n", result.MissingAge)
	fmt.Printf("Duration:         %v\n", result.Duration)
	if result.LastID > 0 {
		fmt.Printf("Last Stored ID:   %d\n", result.LastID)
	}

	if repo != nil {
		if total, err := repo.CountRatings(ctx); err == nil {
			fmt.Printf("Rows in table:    %d\n", total)
		}
	}

	logger.Info(ctx, "[IMPORTER_COMPLETE] Import finished", logging.Fields{
		"total_records":    result.TotalRecords,
		"imported_records": result.ImportedRecords,
		"duration_seconds": result.Duration.Seconds(),
	})
}
