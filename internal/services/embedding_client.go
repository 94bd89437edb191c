package services

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// EmbeddingClientInterface abstracts the embedding gateway for testing
type EmbeddingClientInterface interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingClient converts text into fixed-length vectors via an
// OpenAI-compatible embeddings endpoint. Stateless per call; safe for
// concurrent use across requests.
type EmbeddingClient struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewEmbeddingClient creates a new embedding gateway client
func NewEmbeddingClient(apiKey, model string) *EmbeddingClient {
	return &EmbeddingClient{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}
}

// EmbedQuery embeds a single text
func (c *EmbeddingClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds multiple texts in one call, preserving input order
func (c *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, &EmbeddingError{Operation: "embed", Err: err}
	}

	if len(resp.Data) != len(texts) {
		return nil, &EmbeddingError{
			Operation: "embed",
			Err:       fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}
