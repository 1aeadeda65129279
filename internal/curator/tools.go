package curator

import (
	"context"
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// Tool is a callable capability exposed to the agent. The descriptor carries
// everything the model needs to decide when to call it, plus the handler the
// runner executes when it does. Tools are plain values, not bound to any
// runner instance, so a run can attach any set of them.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Handler     func(ctx context.Context, args json.RawMessage) (string, error)
}

// noParams is the schema for tools that take no arguments
var noParams = json.RawMessage(`{"type":"object","properties":{}}`)

// definition converts the descriptor into the wire format
func (t Tool) definition() openai.Tool {
	params := t.Parameters
	if len(params) == 0 {
		params = noParams
	}
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  params,
		},
	}
}

const feederDescription = `Obtain stored posts joined with their sentiment analysis results.
Each record in the returned list contains a post (post_number, subreddit, title, body)
and its sentiment_score summary. Use this information to guide your next actions,
generate summaries, or perform analysis as required.`

// FeederTool returns the zero-argument tool that feeds the agent the joined
// post/sentiment records.
func (c *Curator) FeederTool() Tool {
	return Tool{
		Name:        "feeder",
		Description: feederDescription,
		Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
			records, err := c.QueryPostsWithSentiments(ctx)
			if err != nil {
				return "", err
			}
			payload, err := json.Marshal(records)
			if err != nil {
				return "", err
			}
			return string(payload), nil
		},
	}
}
