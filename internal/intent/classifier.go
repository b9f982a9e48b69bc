package intent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/nadzzz/hearth/internal/embedder"
)

// Result is one scored intent for an utterance.
type Result struct {
	Label      string
	Confidence float64 // in [0,1]
}

// Classifier scores utterances against the catalog by cosine similarity.
//
// Exemplar embeddings are computed once at construction and are read-only
// afterwards; classification itself embeds only the utterance.
type Classifier struct {
	emb     embedder.Embedder
	entries []Entry
	vectors [][][]float64 // per entry, per exemplar
}

// NewClassifier validates the catalog and precomputes exemplar embeddings.
func NewClassifier(ctx context.Context, emb embedder.Embedder, entries []Entry) (*Classifier, error) {
	if err := ValidateCatalog(entries); err != nil {
		return nil, err
	}

	// Embed every exemplar in one batch, then slice per entry.
	var all []string
	for _, e := range entries {
		all = append(all, e.Exemplars...)
	}
	flat, err := emb.Embed(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("embedding catalog exemplars: %w", err)
	}
	if len(flat) != len(all) {
		return nil, fmt.Errorf("embedding catalog: expected %d vectors, got %d", len(all), len(flat))
	}

	vectors := make([][][]float64, len(entries))
	off := 0
	for i, e := range entries {
		vectors[i] = flat[off : off+len(e.Exemplars)]
		off += len(e.Exemplars)
	}

	slog.Info("intent catalog ready", "backend", emb.Name(), "intents", len(entries), "exemplars", len(all))

	return &Classifier{emb: emb, entries: entries, vectors: vectors}, nil
}

// Classify returns every catalog label scored against the utterance, ordered
// by descending confidence. Ties are broken by catalog declaration order
// (stable sort), so results are deterministic for a given embedding backend.
// An empty utterance yields an empty result list.
func (c *Classifier) Classify(ctx context.Context, utterance string) ([]Result, error) {
	utterance = strings.TrimSpace(strings.ToLower(utterance))
	if utterance == "" {
		return nil, nil
	}

	vecs, err := c.emb.Embed(ctx, []string{utterance})
	if err != nil {
		return nil, fmt.Errorf("embedding utterance: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedding utterance: expected 1 vector, got %d", len(vecs))
	}
	uv := vecs[0]

	results := make([]Result, len(c.entries))
	for i, e := range c.entries {
		best := 0.0
		for _, ev := range c.vectors[i] {
			if sim := cosine(uv, ev); sim > best {
				best = sim
			}
		}
		results[i] = Result{Label: e.Label, Confidence: best}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results, nil
}

// cosine returns the cosine similarity of two vectors clamped to [0,1].
// Mismatched or zero-norm vectors score zero.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
