package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/internal/models"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

// Storage persists one scrape cycle's posts and comments. Each method runs
// in its own transaction: a failure rolls that method's batch back without
// touching what earlier methods committed.
type Storage struct {
	db     *db.DB
	filter *IntegrityFilter
	logger *zap.Logger
}

// NewStorage creates a new storage
func NewStorage(database *db.DB) *Storage {
	return &Storage{
		db:     database,
		filter: NewIntegrityFilter(),
		logger: logging.GetLogger().With(zap.String("component", "storage")),
	}
}

// StorePosts inserts the scraped posts whose submission IDs are not yet
// stored. The whole batch commits once; on error everything rolls back.
// Returns how many posts were stored.
func (s *Storage) StorePosts(ctx context.Context, result Result) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "storage.store_posts")
	defer span.End()

	stored := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh, err := s.filter.FilterNew(tx, result.Posts)
		if err != nil {
			return fmt.Errorf("integrity check: %w", err)
		}

		freshSet := make(map[string]struct{}, len(fresh))
		for _, id := range fresh {
			freshSet[id] = struct{}{}
		}

		for _, post := range result.Posts {
			if _, ok := freshSet[post.ID]; !ok {
				continue
			}
			record := &models.Post{
				SubmissionID: post.ID,
				Subreddit:    post.Subreddit,
				Title:        post.Title,
				Body:         post.Body,
				UpvoteRatio:  post.UpvoteRatio,
				Score:        post.Score,
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("create post %s: %w", post.ID, err)
			}
			stored++
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to store posts", zap.Error(err))
		return 0, err
	}

	s.logger.Info("Stored posts", zap.Int("posts_stored", stored))
	return stored, nil
}

// StoreComments inserts every scraped comment. Comments are not deduplicated:
// rerunning ingestion against unchanged upstream data inserts them again,
// which re-captures updated comment scores. The batch commits once; on error
// it rolls back and the error is returned rather than raised further.
func (s *Storage) StoreComments(ctx context.Context, result Result) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "storage.store_comments")
	defer span.End()

	stored := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, comment := range result.Comments {
			record := &models.Comment{
				SubmissionID: comment.SubmissionID,
				Subreddit:    comment.Subreddit,
				Title:        comment.Title,
				Author:       comment.Author,
				Body:         comment.Body,
				Score:        comment.Score,
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("create comment for %s: %w", comment.SubmissionID, err)
			}
			stored++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to store comments", zap.Error(err))
		return 0, err
	}

	s.logger.Info("Stored comments", zap.Int("comments_stored", stored))
	return stored, nil
}
