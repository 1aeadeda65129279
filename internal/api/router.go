package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/cache"
	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/pkg/logging"
)

const defaultBriefLimit = 20

// Router sets up the read-only HTTP surface over stored scrape results
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache) *Router {
	return &Router{
		db:     database,
		cache:  redisCache,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/briefs", r.listBriefs)
	engine.GET("/sentiments/:submission_id", r.getSentiment)
	engine.GET("/posts/:submission_id", r.getPost)
}

func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}

	status := gin.H{"status": "OK", "service": "threadscout-api"}
	if err := r.cache.Health(c.Request.Context()); err == nil {
		status["cache"] = "OK"
	}

	c.JSON(http.StatusOK, status)
}

func (r *Router) listBriefs(c *gin.Context) {
	limit := defaultBriefLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	repo := db.NewBriefRepository(db.NewRepository(r.db.DB))
	briefs, err := repo.List(c.Request.Context(), limit)
	if err != nil {
		r.logger.Error("Failed to list briefs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list briefs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"briefs": briefs, "count": len(briefs)})
}

func (r *Router) getSentiment(c *gin.Context) {
	submissionID := c.Param("submission_id")

	repo := db.NewSentimentRepository(db.NewRepository(r.db.DB))
	sentiment, err := repo.ByPostID(c.Request.Context(), submissionID)
	if err != nil {
		r.logger.Error("Failed to load sentiment",
			zap.String("submission_id", submissionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sentiment"})
		return
	}
	if sentiment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sentiment stored for submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission_id":     submissionID,
		"sentiment_results": sentiment.SentimentResults,
	})
}

func (r *Router) getPost(c *gin.Context) {
	submissionID := c.Param("submission_id")

	repo := db.NewRepository(r.db.DB)
	post, err := db.NewPostRepository(repo).GetBySubmissionID(c.Request.Context(), submissionID)
	if err != nil {
		r.logger.Error("Failed to load post",
			zap.String("submission_id", submissionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	comments, err := db.NewCommentRepository(repo).BySubmissionID(c.Request.Context(), submissionID)
	if err != nil {
		r.logger.Error("Failed to load comments",
			zap.String("submission_id", submissionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}
