package curator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/threadscout/threadscout/internal/db"
	"github.com/threadscout/threadscout/internal/models"
	"github.com/threadscout/threadscout/pkg/config"
	"github.com/threadscout/threadscout/pkg/logging"
	"github.com/threadscout/threadscout/pkg/telemetry"
)

// Sentinel errors for upstream model failures. Callers branch on these with
// errors.Is; everything else is a plain client error.
var (
	ErrServerUnavailable = errors.New("model temporarily unavailable")
	ErrQuotaExhausted    = errors.New("model quota exhausted")
)

// AgentRunner drives one chat-completion conversation with tools attached.
// The model decides when to call a tool; the runner executes the handler,
// feeds the result back, and iterates until the model produces final text or
// the round cap is hit.
type AgentRunner struct {
	client    *openai.Client
	db        *db.DB
	model     string
	objective string
	maxRounds int
	logger    *zap.Logger

	// done marks a completed run; response holds its final text so
	// StoreCuratorResponse never runs the conversation twice for the same
	// runner.
	done     bool
	response string
}

// NewAgentRunner creates a new agent runner
func NewAgentRunner(database *db.DB, cfg config.AgentConfig) *AgentRunner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &AgentRunner{
		client:    openai.NewClientWithConfig(clientCfg),
		db:        database,
		model:     cfg.Model,
		objective: cfg.Objective,
		maxRounds: cfg.MaxRounds,
		logger:    logging.GetLogger().With(zap.String("component", "curator-agent")),
	}
}

// Run executes the conversation and returns the model's final text
func (r *AgentRunner) Run(ctx context.Context, tools ...Tool) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "curator.agent_run")
	defer span.End()

	definitions := make([]openai.Tool, 0, len(tools))
	handlers := map[string]Tool{}
	for _, tool := range tools {
		definitions = append(definitions, tool.definition())
		handlers[tool.Name] = tool
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: r.objective},
	}

	for round := 0; round < r.maxRounds; round++ {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    r.model,
			Messages: messages,
			Tools:    definitions,
		})
		if err != nil {
			return "", classifyAPIError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("model returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			r.logger.Info("Agent run complete", zap.Int("rounds", round+1))
			return msg.Content, nil
		}

		messages = append(messages, msg)

		for _, call := range msg.ToolCalls {
			result := r.execute(ctx, handlers, call)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("agent exceeded %d tool rounds without a final answer", r.maxRounds)
}

// execute runs one tool call. Handler failures and unknown tool names are
// reported back to the model as tool output rather than aborting the run.
func (r *AgentRunner) execute(ctx context.Context, handlers map[string]Tool, call openai.ToolCall) string {
	tool, ok := handlers[call.Function.Name]
	if !ok {
		r.logger.Warn("Model requested unknown tool", zap.String("tool", call.Function.Name))
		return fmt.Sprintf("error: unknown tool %q", call.Function.Name)
	}

	r.logger.Info("Executing tool call", zap.String("tool", tool.Name))

	result, err := tool.Handler(ctx, []byte(call.Function.Arguments))
	if err != nil {
		r.logger.Error("Tool call failed", zap.String("tool", tool.Name), zap.Error(err))
		return fmt.Sprintf("error: %v", err)
	}
	return result
}

// StoreCuratorResponse runs the agent once and persists its final text as a
// curated brief. A runner that already completed a run reuses its response.
// An empty final text is an error, not a brief: nothing is persisted and the
// next call runs the conversation again.
func (r *AgentRunner) StoreCuratorResponse(ctx context.Context, tools ...Tool) error {
	if !r.done {
		response, err := r.Run(ctx, tools...)
		if err != nil {
			return err
		}
		if strings.TrimSpace(response) == "" {
			return fmt.Errorf("model returned an empty response")
		}
		r.done = true
		r.response = response
	}

	repo := db.NewBriefRepository(db.NewRepository(r.db.DB))
	brief := &models.ProcessedBrief{CuratedContent: r.response}
	if err := repo.Create(ctx, brief); err != nil {
		return fmt.Errorf("store curated brief: %w", err)
	}

	r.logger.Info("Curated brief stored", zap.Int64("brief_id", brief.ID))
	return nil
}

// classifyAPIError maps upstream API failures to sentinel errors by status
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}

	return fmt.Errorf("agent request failed: %w", err)
}
