package reddit

import "encoding/json"

// Submission is one post from a subreddit's hot listing
type Submission struct {
	ID          string
	Subreddit   string
	Title       string
	Body        string
	UpvoteRatio float64
	Score       int
	NumComments int
}

// Comment is one flattened comment from a submission's tree
type Comment struct {
	SubmissionID string
	Subreddit    string
	Title        string
	Author       string
	Body         string
	Score        int
}

// Reddit thing kinds
const (
	kindLink    = "t3"
	kindComment = "t1"
)

// thing is one element of a listing. Data is left raw because its shape
// depends on Kind.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

type submissionData struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
}

// commentData is one comment node. Replies is either an empty string or a
// nested listing, so it stays raw until inspected.
type commentData struct {
	Author  string          `json:"author"`
	Body    string          `json:"body"`
	Score   int             `json:"score"`
	Replies json.RawMessage `json:"replies"`
}
