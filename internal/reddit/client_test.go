package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestClient(t *testing.T, apiHandler http.HandlerFunc) *Client {
	t.Helper()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s, want POST", r.Method)
		}
		fmt.Fprint(w, `{"access_token":"test-token","expires_in":3600}`)
	}))
	t.Cleanup(tokenServer.Close)

	apiServer := httptest.NewServer(apiHandler)
	t.Cleanup(apiServer.Close)

	client := &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		clientID:     "id",
		clientSecret: "secret",
		userAgent:    "threadscout-test/0.1",
		logger:       testLogger(),
		tokenURL:     tokenServer.URL,
		apiBase:      apiServer.URL,
	}
	return client
}

func TestHot(t *testing.T) {
	body := `{"data":{"children":[
		{"kind":"t3","data":{"id":"abc","title":"First post","selftext":"body text","upvote_ratio":0.93,"score":42,"num_comments":7}},
		{"kind":"t3","data":{"id":"def","title":"Second post","selftext":"","upvote_ratio":0.5,"score":3,"num_comments":0}}
	]}}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/r/startups/hot.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		fmt.Fprint(w, body)
	})

	posts, err := client.Hot(context.Background(), "startups", 10)
	if err != nil {
		t.Fatalf("Hot failed: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "abc" || posts[0].Title != "First post" {
		t.Errorf("Unexpected first post: %+v", posts[0])
	}
	if posts[0].UpvoteRatio != 0.93 || posts[0].Score != 42 {
		t.Errorf("Unexpected first post metrics: %+v", posts[0])
	}
	if posts[0].Subreddit != "startups" {
		t.Errorf("Subreddit = %q, want startups", posts[0].Subreddit)
	}
}

func TestHotRespectsLimit(t *testing.T) {
	var children []string
	for i := 0; i < 5; i++ {
		children = append(children, fmt.Sprintf(`{"kind":"t3","data":{"id":"p%d","title":"post %d"}}`, i, i))
	}
	body := fmt.Sprintf(`{"data":{"children":[%s]}}`, strings.Join(children, ","))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	posts, err := client.Hot(context.Background(), "startups", 3)
	if err != nil {
		t.Fatalf("Hot failed: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("Expected 3 posts after limit, got %d", len(posts))
	}
}

func TestComments(t *testing.T) {
	body := `[
		{"data":{"children":[{"kind":"t3","data":{"id":"abc","title":"Parent title","subreddit":"startups"}}]}},
		{"data":{"children":[
			{"kind":"t1","data":{"author":"alice","body":"great point","score":5,"replies":{"data":{"children":[
				{"kind":"t1","data":{"author":"bob","body":"agreed","score":2,"replies":""}}
			]}}}},
			{"kind":"t1","data":{"author":"","body":"anonymous comment","score":1,"replies":""}},
			{"kind":"t1","data":{"author":"carol","body":"[deleted]","score":0,"replies":""}},
			{"kind":"t1","data":{"author":"dave","body":"[removed]","score":0,"replies":""}},
			{"kind":"t1","data":{"author":"erin","body":"   ","score":0,"replies":""}},
			{"kind":"more","data":{"count":12}}
		]}}
	]`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/comments/abc.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, body)
	})

	comments, err := client.Comments(context.Background(), "abc", 150)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}

	// alice, nested bob, and the anonymous comment survive; sentinels and
	// whitespace-only bodies do not.
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d: %+v", len(comments), comments)
	}

	if comments[0].Author != "alice" || comments[0].Body != "great point" {
		t.Errorf("Unexpected first comment: %+v", comments[0])
	}
	if comments[1].Author != "bob" {
		t.Errorf("Expected nested reply flattened second, got: %+v", comments[1])
	}
	if comments[2].Author != "Unknown" {
		t.Errorf("Missing author should map to Unknown, got: %q", comments[2].Author)
	}

	for _, comment := range comments {
		if comment.SubmissionID != "abc" {
			t.Errorf("Comment back-reference = %q, want abc", comment.SubmissionID)
		}
		if comment.Title != "Parent title" {
			t.Errorf("Comment title = %q, want denormalized parent title", comment.Title)
		}
		if comment.Subreddit != "startups" {
			t.Errorf("Comment subreddit = %q, want startups", comment.Subreddit)
		}
	}
}

func TestCommentsLimit(t *testing.T) {
	var children []string
	for i := 0; i < 10; i++ {
		children = append(children, fmt.Sprintf(`{"kind":"t1","data":{"author":"u%d","body":"comment %d","score":1,"replies":""}}`, i, i))
	}
	body := fmt.Sprintf(`[
		{"data":{"children":[{"kind":"t3","data":{"id":"abc","title":"t","subreddit":"s"}}]}},
		{"data":{"children":[%s]}}
	]`, strings.Join(children, ","))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	comments, err := client.Comments(context.Background(), "abc", 4)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 4 {
		t.Errorf("Expected 4 comments after limit, got %d", len(comments))
	}
}

func TestQualifies(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"a real comment", true},
		{"", false},
		{"   ", false},
		{"\n\t", false},
		{"[deleted]", false},
		{"[removed]", false},
		{" [deleted] ", false},
		{"[deleted] but with more text", true},
	}

	for _, tt := range tests {
		if got := qualifies(tt.body); got != tt.want {
			t.Errorf("qualifies(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestAuthFailure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer tokenServer.Close()

	client := &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		clientID:     "id",
		clientSecret: "bad-secret",
		userAgent:    "threadscout-test/0.1",
		logger:       testLogger(),
		tokenURL:     tokenServer.URL,
		apiBase:      "http://unused.invalid",
	}

	if _, err := client.Hot(context.Background(), "startups", 10); err == nil {
		t.Error("Expected error when authentication fails")
	}
	if err := client.Health(context.Background()); err == nil {
		t.Error("Expected Health to report authentication failure")
	}
}
