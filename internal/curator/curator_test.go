package curator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/threadscout/threadscout/internal/cache"
	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/internal/models"
	"github.com/threadscout/threadscout/pkg/config"
)

// fakeFeedCache is an in-memory FeedCache
type fakeFeedCache struct {
	store map[string]string
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{store: map[string]string{}}
}

func (f *fakeFeedCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.store[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (f *fakeFeedCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = string(payload)
	return nil
}

func (f *fakeFeedCache) Delete(_ context.Context, key string) error {
	delete(f.store, key)
	return nil
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(&config.DatabaseConfig{URL: ":memory:"}, "ERROR")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func seedAnalyzedPost(t *testing.T, database *db.DB, submissionID, title string) {
	t.Helper()

	post := &models.Post{SubmissionID: submissionID, Subreddit: "sub", Title: title, IsProcessed: true}
	if err := database.Create(post).Error; err != nil {
		t.Fatalf("Seed post failed: %v", err)
	}
	sentiment := &models.Sentiment{
		PostID:           submissionID,
		SentimentResults: `{"dominant_sentiment":"Positive","avg_compound":0.4,"counts":{"Positive":2},"total_comments":2}`,
	}
	if err := database.Create(sentiment).Error; err != nil {
		t.Fatalf("Seed sentiment failed: %v", err)
	}
}

func TestQueryPostsWithSentimentsInnerJoin(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	seedAnalyzedPost(t, database, "abc", "analyzed post")

	// Stored but unanalyzed: no sentiment row, must not appear
	if err := database.Create(&models.Post{SubmissionID: "def", Subreddit: "sub", Title: "pending"}).Error; err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	curator := NewCurator(database, nil)
	records, err := curator.QueryPostsWithSentiments(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Inner join should return only analyzed posts, got %d records", len(records))
	}

	record := records[0]
	if record.Title != "analyzed post" || record.Subreddit != "sub" {
		t.Errorf("Unexpected projection: %+v", record)
	}
	if record.PostNumber == 0 {
		t.Error("Post number not projected")
	}

	var summary map[string]interface{}
	if err := json.Unmarshal([]byte(record.SentimentScore), &summary); err != nil {
		t.Fatalf("Sentiment score is not the stored JSON payload: %v", err)
	}
	if summary["dominant_sentiment"] != "Positive" {
		t.Errorf("Unexpected sentiment payload: %v", summary)
	}
}

func TestQueryPostsWithSentimentsEmpty(t *testing.T) {
	database := newTestDB(t)

	curator := NewCurator(database, nil)
	records, err := curator.QueryPostsWithSentiments(context.Background())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", records)
	}
}

func TestFeederCacheReadThrough(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	seedAnalyzedPost(t, database, "abc", "first")

	feedCache := newFakeFeedCache()
	curator := NewCurator(database, feedCache)

	// First query misses the cache, reads the database, and fills the cache
	records, err := curator.QueryPostsWithSentiments(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if _, ok := feedCache.store[cache.Key("curator", "feed")]; !ok {
		t.Fatal("Feeder payload not written through to the cache")
	}

	// Second query is served from the cache even after new rows land
	seedAnalyzedPost(t, database, "def", "second")
	records, err = curator.QueryPostsWithSentiments(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected the cached payload, got %d records", len(records))
	}
}

func TestInvalidateFeedDropsStalePayload(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	seedAnalyzedPost(t, database, "abc", "first")

	feedCache := newFakeFeedCache()
	curator := NewCurator(database, feedCache)

	if _, err := curator.QueryPostsWithSentiments(ctx); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	// A new summary lands after the cache was filled, as when the sentiment
	// stage runs between two agent reads
	seedAnalyzedPost(t, database, "def", "second")

	curator.InvalidateFeed(ctx)

	records, err := curator.QueryPostsWithSentiments(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Invalidated feed should include the new post, got %d records", len(records))
	}
}

func TestInvalidateFeedNilCache(t *testing.T) {
	database := newTestDB(t)

	// Must not panic without a cache configured
	NewCurator(database, nil).InvalidateFeed(context.Background())
}

func TestFeederToolPayload(t *testing.T) {
	database := newTestDB(t)
	seedAnalyzedPost(t, database, "abc", "first")
	seedAnalyzedPost(t, database, "def", "second")

	curator := NewCurator(database, nil)
	tool := curator.FeederTool()

	if tool.Name != "feeder" {
		t.Errorf("Tool name = %q", tool.Name)
	}
	if tool.Description == "" {
		t.Error("Feeder tool must carry a contract description")
	}

	payload, err := tool.Handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}

	var records []PostRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("Handler output is not a JSON record list: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestToolDefinitionDefaultsParameters(t *testing.T) {
	tool := Tool{Name: "feeder", Description: "desc"}
	def := tool.definition()

	if def.Function.Name != "feeder" {
		t.Errorf("Definition name = %q", def.Function.Name)
	}
	raw, err := json.Marshal(def.Function.Parameters)
	if err != nil {
		t.Fatalf("Parameters not marshalable: %v", err)
	}

	var schema map[string]interface{}
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("Parameters not a JSON schema: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("Zero-arg tool should declare an object schema, got %v", schema)
	}
}
