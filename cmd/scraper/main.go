package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/internal/ingest"
	"github.com/threadscout/threadscout/internal/reddit"
	"github.com/threadscout/threadscout/pkg/config"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Missing credentials are fatal before any work starts
	if err := cfg.ValidateRedditCredentials(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting ThreadScout scraper",
		zap.Strings("subreddits", cfg.Scrape.Subreddits),
		zap.Int("post_limit", cfg.Scrape.PostLimit),
		zap.Int("comment_limit", cfg.Scrape.CommentLimit))

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database and apply migrations
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Build the Reddit client and verify credentials up front
	client, err := reddit.New(&cfg.Reddit)
	if err != nil {
		logger.Fatal("Failed to create Reddit client", zap.Error(err))
	}

	ctx := context.Background()
	if err := client.Health(ctx); err != nil {
		logger.Fatal("Reddit authentication failed", zap.Error(err))
	}

	// One scrape-and-store cycle
	coordinator := ingest.NewCoordinator(
		ingest.NewScraper(client, cfg.Scrape),
		ingest.NewStorage(database),
	)

	result := coordinator.RunScrape(ctx)
	coordinator.RunStorage(ctx, result)

	logger.Info("Scrape cycle complete",
		zap.Int("posts_fetched", len(result.Posts)),
		zap.Int("comments_fetched", len(result.Comments)))
}
