package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/reddit"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

// Coordinator orchestrates one scrape cycle and one storage cycle. Stages
// run in strict sequence; an empty stage result short-circuits the rest of
// the cycle with a warning, never an error.
type Coordinator struct {
	scraper *Scraper
	storage *Storage
	logger  *zap.Logger
}

// NewCoordinator creates a new coordinator
func NewCoordinator(scraper *Scraper, storage *Storage) *Coordinator {
	return &Coordinator{
		scraper: scraper,
		storage: storage,
		logger:  logging.GetLogger().With(zap.String("component", "coordinator")),
	}
}

// RunScrape executes FetchPosts, FetchPostIDs and FetchComments in order,
// returning whatever partial result the cycle produced.
func (c *Coordinator) RunScrape(ctx context.Context) Result {
	ctx, span := telemetry.StartSpan(ctx, "coordinator.run_scrape")
	defer span.End()

	c.logger.Info("Starting scraping pipeline")

	c.logger.Info("Step 1/3: fetching posts")
	posts := c.scraper.FetchPosts(ctx)
	if len(posts) == 0 {
		c.logger.Warn("No posts were fetched, exiting pipeline")
		return Result{Posts: []reddit.Submission{}, SubmissionIDs: []string{}, Comments: []reddit.Comment{}}
	}

	c.logger.Info("Step 2/3: extracting submission IDs")
	ids := c.scraper.FetchPostIDs()
	if len(ids) == 0 {
		c.logger.Warn("No submission IDs extracted, exiting pipeline")
		return Result{Posts: posts, SubmissionIDs: []string{}, Comments: []reddit.Comment{}}
	}

	c.logger.Info("Step 3/3: fetching comments")
	comments := c.scraper.FetchComments(ctx)
	if len(comments) == 0 {
		c.logger.Warn("No comments were fetched, exiting pipeline")
		return Result{Posts: posts, SubmissionIDs: ids, Comments: []reddit.Comment{}}
	}

	c.logger.Info("Scraping pipeline completed")

	return Result{Posts: posts, SubmissionIDs: ids, Comments: comments}
}

// RunStorage stores posts, then comments. A post-storage error skips comment
// storage for the cycle (comments are meaningless without their parent
// posts); a comment-storage error is logged but already-committed posts stay.
func (c *Coordinator) RunStorage(ctx context.Context, result Result) {
	ctx, span := telemetry.StartSpan(ctx, "coordinator.run_storage")
	defer span.End()

	c.logger.Info("Starting storage pipeline")

	c.logger.Info("Step 1/2: storing posts")
	if _, err := c.storage.StorePosts(ctx, result); err != nil {
		c.logger.Error("Unexpected error while storing posts, skipping comments", zap.Error(err))
		return
	}

	c.logger.Info("Step 2/2: storing comments")
	if _, err := c.storage.StoreComments(ctx, result); err != nil {
		c.logger.Error("Unexpected error while storing comments", zap.Error(err))
	}

	c.logger.Info("Storage pipeline completed")
}
