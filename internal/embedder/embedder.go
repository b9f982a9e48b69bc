// Package embedder defines the interface for sentence embedding backends.
//
// The intent classifier only needs one capability from a model: turn text
// into fixed-length vectors. Hearth ships with two backends: OpenAI (cloud)
// and Ollama (self-hosted). The matching logic never touches the model
// directly, so backends can be swapped without changing the classifier.
package embedder

import "context"

// Embedder converts text into embedding vectors.
type Embedder interface {
	// Name returns the backend identifier (e.g., "openai", "ollama").
	Name() string

	// Embed returns one vector per input text, in input order. All vectors
	// from one backend have the same dimension.
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// Close releases any resources held by the backend.
	Close() error
}
