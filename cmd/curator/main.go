package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/cache"
	"github.com/threadscout/threadscout/internal/curator"
	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/internal/sentiment"
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

	// The curator cannot run without a model key
	if err := cfg.ValidateAgentCredentials(); err != nil {
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
	logger.Info("Starting ThreadScout curator",
		zap.String("model", cfg.Agent.Model),
		zap.Int("analysis_post_limit", cfg.Analysis.PostLimit))

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

	// Optional Redis cache for the feeder payload
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	ctx := context.Background()

	// Analyze the next batch of unprocessed posts
	pipeline := sentiment.NewPipeline(database, cfg.Analysis)
	summaries, err := pipeline.Run(ctx)
	if err != nil {
		logger.Fatal("Sentiment pipeline failed", zap.Error(err))
	}
	logger.Info("Sentiment pipeline complete", zap.Int("posts_analyzed", len(summaries)))

	// Run the agent over everything analyzed so far and store its brief.
	// The summaries just written must reach the agent, so any cached feeder
	// payload from an earlier run is dropped first.
	feed := curator.NewCurator(database, redisCache)
	feed.InvalidateFeed(ctx)

	runner := curator.NewAgentRunner(database, cfg.Agent)

	if err := runner.StoreCuratorResponse(ctx, feed.FeederTool()); err != nil {
		switch {
		case errors.Is(err, curator.ErrServerUnavailable):
			logger.Error("Model temporarily unavailable, try again later", zap.Error(err))
		case errors.Is(err, curator.ErrQuotaExhausted):
			logger.Error("Model quota exhausted, try again after reset or switch models", zap.Error(err))
		default:
			logger.Error("Curator agent failed", zap.Error(err))
		}
		os.Exit(1)
	}

	logger.Info("Curator run complete")
}
