package sentiment

// Summary aggregates per-comment results for one post
type Summary struct {
	DominantSentiment string         `json:"dominant_sentiment"`
	AvgCompound       float64        `json:"avg_compound"`
	Counts            map[string]int `json:"counts"`
	TotalComments     int            `json:"total_comments"`
}

// Summarize aggregates per-comment scores into a post-level summary. The
// dominant label is the mode; ties break toward the label that reached the
// winning count first. Zero scored comments yield Neutral with an average
// compound of 0.0.
func Summarize(scores []CommentScore) Summary {
	counts := map[string]int{}
	order := []string{}
	sum := 0.0

	for _, score := range scores {
		if _, seen := counts[score.Label]; !seen {
			order = append(order, score.Label)
		}
		counts[score.Label]++
		sum += score.Compound
	}

	avg := 0.0
	if len(scores) > 0 {
		avg = sum / float64(len(scores))
	}

	dominant := LabelNeutral
	best := 0
	for _, label := range order {
		if counts[label] > best {
			best = counts[label]
			dominant = label
		}
	}

	return Summary{
		DominantSentiment: dominant,
		AvgCompound:       avg,
		Counts:            counts,
		TotalComments:     len(scores),
	}
}
