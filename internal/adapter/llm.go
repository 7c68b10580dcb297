package adapter

import (
	"context"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
	"mnemo/pkg/errors"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

// LLMAdapter handles communication with an OpenAI-compatible chat endpoint
// (Groq in the default configuration). Every call site in the pipeline uses
// the same shape: one system instruction, one user message, deterministic
// output.
type LLMAdapter struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter
func NewLLMAdapter(baseURL, apiKey, modelID string) *LLMAdapter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &LLMAdapter{
		client: openai.NewClientWithConfig(config),
		model:  modelID,
		logger: logger.Get(),
	}
}

// Model returns the configured model ID
func (a *LLMAdapter) Model() string {
	return a.model
}

// Complete sends one chat completion request and returns the trimmed text.
// Calls are fail-fast: no retry and no timeout beyond what the caller's
// context carries.
func (a *LLMAdapter) Complete(ctx context.Context, systemPrompt, userMsg string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMsg,
			},
		},
		// The client drops a literal 0 from the request body; the smallest
		// positive float keeps the call deterministic.
		Temperature: math.SmallestNonzeroFloat32,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		a.logger.Error("LLM request failed",
			zap.String("model", a.model),
			zap.Error(err),
		)
		return "", errors.NewLLMRequestFailed(a.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.ErrLLMEmptyResponse
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
