package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/reddit"
	"github.com/threadscout/threadscout/pkg/config"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

// PlatformClient is the capability the scraper needs from the social
// platform: hot listings per community and flattened comments per submission.
type PlatformClient interface {
	Hot(ctx context.Context, subreddit string, limit int) ([]reddit.Submission, error)
	Comments(ctx context.Context, submissionID string, limit int) ([]reddit.Comment, error)
}

// Result carries one scrape cycle's aligned collections
type Result struct {
	Posts         []reddit.Submission
	SubmissionIDs []string
	Comments      []reddit.Comment
}

// Scraper walks the configured subreddits and collects posts, submission IDs
// and comments for one cycle. Fetched data is cached on the scraper until the
// next FetchPosts call.
type Scraper struct {
	client PlatformClient
	cfg    config.ScrapeConfig
	logger *zap.Logger

	posts         []reddit.Submission
	submissionIDs []string
	comments      []reddit.Comment
}

// NewScraper creates a new scraper
func NewScraper(client PlatformClient, cfg config.ScrapeConfig) *Scraper {
	return &Scraper{
		client: client,
		cfg:    cfg,
		logger: logging.GetLogger().With(zap.String("component", "scraper")),
	}
}

// FetchPosts fetches the hot listing for every configured subreddit. A fetch
// error for one subreddit is logged and the remaining subreddits still run;
// the partial result is returned, never an error.
func (s *Scraper) FetchPosts(ctx context.Context) []reddit.Submission {
	ctx, span := telemetry.StartSpan(ctx, "scraper.fetch_posts")
	defer span.End()

	posts := []reddit.Submission{}

	for _, subreddit := range s.cfg.Subreddits {
		s.logger.Info("Fetching posts",
			zap.String("subreddit", subreddit),
			zap.Int("limit", s.cfg.PostLimit))

		fetched, err := s.client.Hot(ctx, subreddit, s.cfg.PostLimit)
		if err != nil {
			s.logger.Error("Failed to fetch posts",
				zap.String("subreddit", subreddit),
				zap.Error(err))
			continue
		}

		kept := 0
		for _, post := range fetched {
			if !s.meetsThresholds(post) {
				continue
			}
			posts = append(posts, post)
			kept++
		}

		s.logger.Info("Fetched posts",
			zap.String("subreddit", subreddit),
			zap.Int("retrieved", len(fetched)),
			zap.Int("kept", kept))
	}

	s.posts = posts
	s.submissionIDs = nil
	s.comments = nil

	s.logger.Info("Completed fetching posts", zap.Int("total", len(posts)))
	return posts
}

// meetsThresholds applies the configured quality filters. Zero-valued
// thresholds are disabled.
func (s *Scraper) meetsThresholds(post reddit.Submission) bool {
	if s.cfg.MinScore > 0 && post.Score < s.cfg.MinScore {
		return false
	}
	if s.cfg.MinUpvoteRatio > 0 && post.UpvoteRatio < s.cfg.MinUpvoteRatio {
		return false
	}
	return true
}

// FetchPostIDs projects submission IDs from the most recently fetched posts.
// Returns empty if called before FetchPosts.
func (s *Scraper) FetchPostIDs() []string {
	if len(s.posts) == 0 {
		s.logger.Warn("No posts available, run FetchPosts first")
		return []string{}
	}

	ids := make([]string, 0, len(s.posts))
	for _, post := range s.posts {
		ids = append(ids, post.ID)
	}

	s.submissionIDs = ids
	s.logger.Info("Extracted submission IDs", zap.Int("count", len(ids)))
	return ids
}

// FetchComments fetches up to the configured limit of comments per known
// submission. A per-submission error is logged and that submission's
// comments are skipped, not fatal to the batch.
func (s *Scraper) FetchComments(ctx context.Context) []reddit.Comment {
	ctx, span := telemetry.StartSpan(ctx, "scraper.fetch_comments")
	defer span.End()

	if len(s.submissionIDs) == 0 {
		s.logger.Warn("No submission IDs available, run FetchPostIDs first")
		return []reddit.Comment{}
	}

	collected := []reddit.Comment{}
	s.logger.Info("Fetching comments", zap.Int("submissions", len(s.submissionIDs)))

	for _, submissionID := range s.submissionIDs {
		comments, err := s.client.Comments(ctx, submissionID, s.cfg.CommentLimit)
		if err != nil {
			s.logger.Error("Failed to fetch comments",
				zap.String("submission_id", submissionID),
				zap.Error(err))
			continue
		}

		collected = append(collected, comments...)
		s.logger.Debug("Collected comments",
			zap.String("submission_id", submissionID),
			zap.Int("count", len(comments)))
	}

	s.comments = collected
	s.logger.Info("Completed fetching comments", zap.Int("total", len(collected)))
	return collected
}
