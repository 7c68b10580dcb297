package adapter

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

// Embedder wraps the embeddings API of an OpenAI-compatible endpoint.
// The episodic store uses it for both document and query vectors.
type Embedder struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewEmbedder creates a new embedding client
func NewEmbedder(baseURL, apiKey, model string) *Embedder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Embedder{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger.Get(),
	}
}

// Embed returns the embedding vector for a single text
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		e.logger.Error("Embedding request failed",
			zap.String("model", e.model),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return resp.Data[0].Embedding, nil
}
