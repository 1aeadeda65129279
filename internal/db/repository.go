package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/threadscout/threadscout/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetBySubmissionID retrieves a post by its platform-assigned submission ID
func (r *PostRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ExistingSubmissionIDs returns which of the given submission IDs are already stored
func (r *PostRepository) ExistingSubmissionIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []string
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("submission_id IN ?", ids).
		Pluck("submission_id", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// Unprocessed retrieves up to limit posts that have not been analyzed yet
func (r *PostRepository) Unprocessed(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("is_processed = ?", false).
		Order("id").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// BySubmissionID retrieves all comments belonging to a post
func (r *CommentRepository) BySubmissionID(ctx context.Context, submissionID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("id").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// SentimentRepository provides sentiment-summary database operations
type SentimentRepository struct {
	*Repository
}

// NewSentimentRepository creates a new sentiment repository
func NewSentimentRepository(repo *Repository) *SentimentRepository {
	return &SentimentRepository{Repository: repo}
}

// ByPostID retrieves the stored summary for a post
func (r *SentimentRepository) ByPostID(ctx context.Context, postID string) (*models.Sentiment, error) {
	var sentiment models.Sentiment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&sentiment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sentiment, nil
}

// Create creates a new sentiment summary
func (r *SentimentRepository) Create(ctx context.Context, sentiment *models.Sentiment) error {
	return r.db.WithContext(ctx).Create(sentiment).Error
}

// BriefRepository provides curated-brief database operations
type BriefRepository struct {
	*Repository
}

// NewBriefRepository creates a new brief repository
func NewBriefRepository(repo *Repository) *BriefRepository {
	return &BriefRepository{Repository: repo}
}

// Create creates a new processed brief
func (r *BriefRepository) Create(ctx context.Context, brief *models.ProcessedBrief) error {
	return r.db.WithContext(ctx).Create(brief).Error
}

// List retrieves up to limit briefs, newest first
func (r *BriefRepository) List(ctx context.Context, limit int) ([]*models.ProcessedBrief, error) {
	var briefs []*models.ProcessedBrief
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&briefs).Error; err != nil {
		return nil, err
	}
	return briefs, nil
}
