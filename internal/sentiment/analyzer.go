package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
	"go.uber.org/zap"

	"github.com/threadscout/threadscout/pkg/logging"
)

// Sentiment labels
const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// Classification thresholds on the compound score. These are fixed VADER
// conventions and must not be made configurable: stored summaries from
// earlier runs depend on them.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// CommentRecord is one comment body with back-references, extracted from a
// stored post's comment set.
type CommentRecord struct {
	SubmissionID string
	Author       string
	Body         string
}

// CommentScore is the per-comment analysis result
type CommentScore struct {
	SubmissionID string  `json:"submission_id"`
	Author       string  `json:"author"`
	Text         string  `json:"text"`
	Compound     float64 `json:"compound"`
	Label        string  `json:"label"`
}

// Analyzer scores comment text with a lexicon-based polarity model
type Analyzer struct {
	sia    *govader.SentimentIntensityAnalyzer
	logger *zap.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		sia:    govader.NewSentimentIntensityAnalyzer(),
		logger: logging.GetLogger().With(zap.String("component", "sentiment-analyzer")),
	}
}

// Score computes the compound polarity score for a piece of text,
// roughly in [-1, 1].
func (a *Analyzer) Score(text string) float64 {
	return a.sia.PolarityScores(text).Compound
}

// Classify maps a compound score to a sentiment label. Values at the
// thresholds exactly are Neutral.
func Classify(compound float64) string {
	switch {
	case compound > positiveThreshold:
		return LabelPositive
	case compound < negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// AnalyzeComments scores each extracted comment. Comments whose bodies are
// empty or whitespace-only are skipped with a warning rather than failing
// the batch.
func (a *Analyzer) AnalyzeComments(records []CommentRecord) []CommentScore {
	scores := []CommentScore{}

	for _, record := range records {
		if strings.TrimSpace(record.Body) == "" {
			a.logger.Warn("Skipping empty comment",
				zap.String("submission_id", record.SubmissionID),
				zap.String("author", record.Author))
			continue
		}

		compound := a.Score(record.Body)
		scores = append(scores, CommentScore{
			SubmissionID: record.SubmissionID,
			Author:       record.Author,
			Text:         record.Body,
			Compound:     compound,
			Label:        Classify(compound),
		})
	}

	return scores
}
