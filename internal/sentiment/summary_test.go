package sentiment

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	scores := []CommentScore{
		{Label: LabelPositive, Compound: 0.6},
		{Label: LabelPositive, Compound: 0.4},
		{Label: LabelNegative, Compound: -0.5},
	}

	summary := Summarize(scores)

	if summary.DominantSentiment != LabelPositive {
		t.Errorf("DominantSentiment = %q, want Positive", summary.DominantSentiment)
	}
	if summary.Counts[LabelPositive] != 2 || summary.Counts[LabelNegative] != 1 {
		t.Errorf("Unexpected counts: %v", summary.Counts)
	}
	wantAvg := (0.6 + 0.4 - 0.5) / 3
	if math.Abs(summary.AvgCompound-wantAvg) > 1e-9 {
		t.Errorf("AvgCompound = %v, want %v", summary.AvgCompound, wantAvg)
	}
	if summary.TotalComments != 3 {
		t.Errorf("TotalComments = %d, want 3", summary.TotalComments)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	if summary.DominantSentiment != LabelNeutral {
		t.Errorf("Empty batch dominant = %q, want Neutral", summary.DominantSentiment)
	}
	if summary.AvgCompound != 0.0 {
		t.Errorf("Empty batch avg = %v, want 0.0", summary.AvgCompound)
	}
	if len(summary.Counts) != 0 {
		t.Errorf("Empty batch counts = %v, want empty", summary.Counts)
	}
	if summary.TotalComments != 0 {
		t.Errorf("Empty batch total = %d, want 0", summary.TotalComments)
	}
}

func TestSummarizeTieBreak(t *testing.T) {
	// Equal counts: the label that reached the winning count first wins
	scores := []CommentScore{
		{Label: LabelNegative, Compound: -0.3},
		{Label: LabelPositive, Compound: 0.3},
		{Label: LabelPositive, Compound: 0.3},
		{Label: LabelNegative, Compound: -0.3},
	}

	summary := Summarize(scores)

	if summary.DominantSentiment != LabelNegative {
		t.Errorf("Tie should break toward first-encountered label, got %q", summary.DominantSentiment)
	}
}
