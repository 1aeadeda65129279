package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/threadscout/threadscout/pkg/config"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIBase  = "https://oauth.reddit.com"
)

// Client is an authenticated Reddit API client. One instance holds one
// OAuth session, reused across calls; authentication is refreshed on demand.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	logger       *zap.Logger
	tokenURL     string
	apiBase      string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New creates a new Reddit client
func New(cfg *config.RedditConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("reddit client id and secret are required")
	}

	logger := logging.GetLogger().With(zap.String("component", "reddit-client"))

	client := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		userAgent:    cfg.UserAgent,
		logger:       logger,
		tokenURL:     defaultTokenURL,
		apiBase:      defaultAPIBase,
	}

	logger.Info("Reddit client initialized", zap.String("user_agent", cfg.UserAgent))

	return client, nil
}

// Health verifies that an access token can be obtained, refreshing it if
// the cached one has expired.
func (c *Client) Health(ctx context.Context) error {
	return c.authenticate(ctx)
}

// authenticate obtains an app-only OAuth token, reusing the cached one
// while it remains valid.
func (c *Client) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	data := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}

	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reddit token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit auth status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode reddit token: %w", err)
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	c.logger.Debug("Reddit token refreshed", zap.Time("expiry", c.tokenExpiry))

	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reddit request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode reddit response for %s: %w", path, err)
	}

	return nil
}

// Hot fetches up to limit submissions from a subreddit's hot listing
func (c *Client) Hot(ctx context.Context, subreddit string, limit int) ([]Submission, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.hot")
	defer span.End()

	path := fmt.Sprintf("/r/%s/hot.json?limit=%d", url.PathEscape(subreddit), limit)

	var page listing
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("fetch r/%s hot: %w", subreddit, err)
	}

	submissions := make([]Submission, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		if child.Kind != kindLink {
			continue
		}
		var post submissionData
		if err := json.Unmarshal(child.Data, &post); err != nil {
			c.logger.Warn("Skipping undecodable submission", zap.String("subreddit", subreddit), zap.Error(err))
			continue
		}
		submissions = append(submissions, Submission{
			ID:          post.ID,
			Subreddit:   subreddit,
			Title:       post.Title,
			Body:        post.Selftext,
			UpvoteRatio: post.UpvoteRatio,
			Score:       post.Score,
			NumComments: post.NumComments,
		})
		if len(submissions) >= limit {
			break
		}
	}

	return submissions, nil
}

// Comments fetches up to limit comments for a submission, flattening the
// comment tree. Empty and removed/deleted bodies are filtered out here so
// they never reach storage; missing authors map to "Unknown".
func (c *Client) Comments(ctx context.Context, submissionID string, limit int) ([]Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.comments")
	defer span.End()

	path := fmt.Sprintf("/comments/%s.json?limit=%d&depth=100", url.PathEscape(submissionID), limit)

	// The comments endpoint returns two listings: the submission itself,
	// then the comment tree.
	var payload []listing
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetch comments for %s: %w", submissionID, err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("unexpected comments payload for %s: %d listings", submissionID, len(payload))
	}

	var title, subreddit string
	for _, child := range payload[0].Data.Children {
		if child.Kind != kindLink {
			continue
		}
		var post submissionData
		if err := json.Unmarshal(child.Data, &post); err == nil {
			title = post.Title
			subreddit = post.Subreddit
		}
		break
	}

	var comments []Comment
	c.flatten(payload[1].Data.Children, submissionID, title, subreddit, limit, &comments)

	return comments, nil
}

// flatten walks the comment tree depth-first, collecting qualifying comments
// until the limit is reached. "more" placeholders carry no bodies and are
// skipped.
func (c *Client) flatten(children []thing, submissionID, title, subreddit string, limit int, out *[]Comment) {
	for _, child := range children {
		if len(*out) >= limit {
			return
		}
		if child.Kind != kindComment {
			continue
		}

		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			c.logger.Warn("Skipping undecodable comment", zap.String("submission_id", submissionID), zap.Error(err))
			continue
		}

		if qualifies(data.Body) {
			author := data.Author
			if author == "" {
				author = "Unknown"
			}
			*out = append(*out, Comment{
				SubmissionID: submissionID,
				Subreddit:    subreddit,
				Title:        title,
				Author:       author,
				Body:         data.Body,
				Score:        data.Score,
			})
		}

		if len(data.Replies) > 0 && data.Replies[0] == '{' {
			var replies listing
			if err := json.Unmarshal(data.Replies, &replies); err == nil {
				c.flatten(replies.Data.Children, submissionID, title, subreddit, limit, out)
			}
		}
	}
}

// qualifies reports whether a comment body should be kept. Bodies that are
// empty, whitespace-only, or the platform's deletion sentinels are dropped
// at scrape time and never stored.
func qualifies(body string) bool {
	trimmed := strings.TrimSpace(body)
	return trimmed != "" && trimmed != "[deleted]" && trimmed != "[removed]"
}
