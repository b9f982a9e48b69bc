// Package openai implements the Embedder interface using the OpenAI
// Embeddings API.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nadzzz/hearth/internal/config"
)

// Embedder calls the OpenAI Embeddings API.
type Embedder struct {
	client openai.Client
	model  openai.EmbeddingModel
}

// New creates a new OpenAI embedder from config.
func New(cfg config.OpenAIConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: missing API key")
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	return &Embedder{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Name returns the backend identifier.
func (e *Embedder) Name() string { return "openai" }

// Embed requests embeddings for all texts in a single API call.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	// The API carries an index per vector; sort to guarantee input order.
	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float64, len(data))
	for i, d := range data {
		vectors[i] = d.Embedding
	}

	slog.Debug("openai embeddings complete", "texts", len(texts), "dim", len(vectors[0]))
	return vectors, nil
}

// Close is a no-op — the client is stateless.
func (e *Embedder) Close() error { return nil }
