// Package ollama implements the Embedder interface using a self-hosted
// Ollama server (or any endpoint speaking its /api/embeddings schema).
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nadzzz/hearth/internal/config"
)

// Embedder calls an Ollama-compatible embeddings endpoint.
type Embedder struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates a new Ollama embedder from config.
func New(cfg config.OllamaConfig) *Embedder {
	model := cfg.Model
	if model == "" {
		model = "nomic-embed-text"
	}
	return &Embedder{
		endpoint: cfg.Endpoint,
		model:    model,
		client:   &http.Client{},
	}
}

// Name returns the backend identifier.
func (e *Embedder) Name() string { return "ollama" }

// Embed requests one embedding per text. The Ollama API takes a single
// prompt per call, so texts are embedded sequentially.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for _, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	slog.Debug("ollama embeddings complete", "texts", len(texts))
	return vectors, nil
}

func (e *Embedder) embedOne(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]string{
		"model":  e.model,
		"prompt": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("embed request failed (status %d): %s", resp.StatusCode, body)
	}

	var result struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("embed response: empty vector")
	}
	return result.Embedding, nil
}

// Close is a no-op — connections are per-request.
func (e *Embedder) Close() error { return nil }
