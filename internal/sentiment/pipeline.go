package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/internal/models"
	"github.com/threadscout/threadscout/pkg/config"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

// PostWithComments is one stored post joined with its full comment set
type PostWithComments struct {
	Post     *models.Post
	Comments []*models.Comment
}

// Pipeline runs the sentiment stage as an explicit sequence: query posts
// with comments, extract comment records, analyze, summarize, store. Each
// stage takes the previous stage's typed output; the pipeline, not the
// stages, decides ordering.
type Pipeline struct {
	db       *db.DB
	analyzer *Analyzer
	limit    int
	logger   *zap.Logger
}

// NewPipeline creates a new sentiment pipeline
func NewPipeline(database *db.DB, cfg config.AnalysisConfig) *Pipeline {
	limit := cfg.PostLimit
	if limit <= 0 {
		limit = 1
	}
	return &Pipeline{
		db:       database,
		analyzer: NewAnalyzer(),
		limit:    limit,
		logger:   logging.GetLogger().With(zap.String("component", "sentiment-pipeline")),
	}
}

// QueryPostsWithComments fetches up to the configured limit of unanalyzed
// posts, each joined with its comments. The small default limit bounds
// analysis cost per run.
func (p *Pipeline) QueryPostsWithComments(ctx context.Context) ([]PostWithComments, error) {
	ctx, span := telemetry.StartSpan(ctx, "sentiment.query_posts")
	defer span.End()

	repo := db.NewRepository(p.db.DB)
	postRepo := db.NewPostRepository(repo)
	commentRepo := db.NewCommentRepository(repo)

	posts, err := postRepo.Unprocessed(ctx, p.limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed posts: %w", err)
	}

	batch := make([]PostWithComments, 0, len(posts))
	totalComments := 0

	for _, post := range posts {
		comments, err := commentRepo.BySubmissionID(ctx, post.SubmissionID)
		if err != nil {
			return nil, fmt.Errorf("query comments for %s: %w", post.SubmissionID, err)
		}
		totalComments += len(comments)
		batch = append(batch, PostWithComments{Post: post, Comments: comments})

		p.logger.Info("Retrieved post with comments",
			zap.String("submission_id", post.SubmissionID),
			zap.Int("comments", len(comments)))
	}

	p.logger.Info("Query complete",
		zap.Int("posts", len(batch)),
		zap.Int("comments", totalComments))

	return batch, nil
}

// ExtractComments flattens a joined batch into plain comment records with
// back-references. Records with empty or whitespace-only bodies are dropped.
func ExtractComments(batch []PostWithComments) []CommentRecord {
	records := []CommentRecord{}
	for _, entry := range batch {
		records = append(records, extractFromPost(entry)...)
	}
	return records
}

func extractFromPost(entry PostWithComments) []CommentRecord {
	records := []CommentRecord{}
	for _, comment := range entry.Comments {
		records = append(records, CommentRecord{
			SubmissionID: comment.SubmissionID,
			Author:       comment.Author,
			Body:         comment.Body,
		})
	}
	return records
}

// Run analyzes one batch of posts. Every post in the batch gets its own
// stored summary keyed by its submission ID, and is marked processed in the
// same transaction; a storage failure rolls that post back, logs, and moves
// on to the next one.
func (p *Pipeline) Run(ctx context.Context) ([]Summary, error) {
	ctx, span := telemetry.StartSpan(ctx, "sentiment.run")
	defer span.End()

	batch, err := p.QueryPostsWithComments(ctx)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		p.logger.Warn("No unprocessed posts to analyze")
		return []Summary{}, nil
	}

	summaries := make([]Summary, 0, len(batch))

	for _, entry := range batch {
		records := extractFromPost(entry)
		scores := p.analyzer.AnalyzeComments(records)
		summary := Summarize(scores)

		if err := p.store(ctx, entry.Post, summary); err != nil {
			p.logger.Error("Failed to store sentiment summary",
				zap.String("submission_id", entry.Post.SubmissionID),
				zap.Error(err))
			continue
		}

		p.logger.Info("Post sentiment summary stored",
			zap.String("submission_id", entry.Post.SubmissionID),
			zap.String("dominant_sentiment", summary.DominantSentiment),
			zap.Float64("avg_compound", summary.AvgCompound),
			zap.Int("total_comments", summary.TotalComments))

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// store persists one post's summary and flips its processed flag atomically
func (p *Pipeline) store(ctx context.Context, post *models.Post, summary Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &models.Sentiment{
			PostID:           post.SubmissionID,
			SentimentResults: string(payload),
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("create sentiment: %w", err)
		}

		if err := tx.Model(&models.Post{}).
			Where("submission_id = ?", post.SubmissionID).
			Update("is_processed", true).Error; err != nil {
			return fmt.Errorf("mark post processed: %w", err)
		}

		return nil
	})
}
