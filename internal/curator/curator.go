package curator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/cache"
	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

// feedTTL bounds staleness of the cached feeder payload between agent runs
const feedTTL = 5 * time.Minute

// FeedCache is the caching capability the curator needs. *cache.Cache
// satisfies it; tests can substitute an in-memory store.
type FeedCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PostRecord is one post joined with its stored sentiment summary, shaped for
// the agent: the summary travels as its serialized JSON payload.
type PostRecord struct {
	PostNumber     int64  `gorm:"column:post_number" json:"post_number"`
	Subreddit      string `gorm:"column:subreddit" json:"subreddit"`
	Title          string `gorm:"column:title" json:"title"`
	Body           string `gorm:"column:body" json:"body"`
	SentimentScore string `gorm:"column:sentiment_score" json:"sentiment_score"`
}

// Curator assembles analyzed posts for the agent
type Curator struct {
	db     *db.DB
	cache  FeedCache
	logger *zap.Logger
}

// NewCurator creates a new curator. The cache may be nil.
func NewCurator(database *db.DB, feedCache FeedCache) *Curator {
	return &Curator{
		db:     database,
		cache:  feedCache,
		logger: logging.GetLogger().With(zap.String("component", "curator")),
	}
}

func feedKey() string {
	return cache.Key("curator", "feed")
}

// QueryPostsWithSentiments returns every post that has a stored sentiment
// summary, inner-joined on submission ID. Posts without a summary are
// excluded; no matches yield an empty slice. Results are served read-through
// from Redis when a cache is configured.
func (c *Curator) QueryPostsWithSentiments(ctx context.Context) ([]PostRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "curator.query_posts_with_sentiments")
	defer span.End()

	if c.cache != nil {
		var cached []PostRecord
		err := c.cache.GetJSON(ctx, feedKey(), &cached)
		switch {
		case err == nil:
			c.logger.Info("Serving feeder payload from cache", zap.Int("records", len(cached)))
			return cached, nil
		case errors.Is(err, cache.ErrMiss), errors.Is(err, cache.ErrCacheDisabled):
			// fall through to the database
		default:
			c.logger.Warn("Feeder cache read failed", zap.Error(err))
		}
	}

	c.logger.Info("Querying posts with sentiments")

	records := []PostRecord{}
	err := c.db.WithContext(ctx).
		Table("posts").
		Select("posts.id AS post_number, posts.subreddit, posts.title, posts.body, sentiments.sentiment_results AS sentiment_score").
		Joins("INNER JOIN sentiments ON sentiments.post_id = posts.submission_id").
		Order("posts.id").
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query posts with sentiments: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, feedKey(), records, feedTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			c.logger.Warn("Failed to cache feeder payload", zap.Error(err))
		}
	}

	c.logger.Info("Feeder payload assembled", zap.Int("records", len(records)))
	return records, nil
}

// InvalidateFeed drops the cached feeder payload so the next query reads
// fresh rows. The curate cycle calls this after the sentiment stage writes
// new summaries; without it the agent could be fed a payload predating them.
func (c *Curator) InvalidateFeed(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, feedKey()); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		c.logger.Warn("Failed to invalidate feeder cache", zap.Error(err))
	}
}
