package intent

import (
	"context"
	"testing"
)

// stubEmbedder maps known phrases to fixed vectors so similarity scores are
// fully deterministic in tests.
type stubEmbedder struct {
	vectors map[string][]float64
}

func (s *stubEmbedder) Name() string { return "stub" }

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float64{0, 0, 1}
		}
	}
	return out, nil
}

func (s *stubEmbedder) Close() error { return nil }

func testCatalog() []Entry {
	return []Entry{
		{Label: "greet", Exemplars: []string{"hello", "hi"}},
		{Label: "farewell", Exemplars: []string{"goodbye", "bye"}},
		{Label: "lights", Exemplars: []string{"turn on the light"}},
	}
}

func testEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float64{
		"hello":             {1, 0, 0},
		"hi":                {0.9, 0.1, 0},
		"goodbye":           {0, 1, 0},
		"bye":               {0.1, 0.9, 0},
		"turn on the light": {0.5, 0.5, 0},
	}}
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(context.Background(), testEmbedder(), testCatalog())
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

func TestClassifyOrdering(t *testing.T) {
	c := newTestClassifier(t)

	results, err := c.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected a score for every catalog entry, got %d", len(results))
	}
	if results[0].Label != "greet" {
		t.Errorf("expected top label greet, got %s", results[0].Label)
	}
	if results[0].Confidence <= results[1].Confidence {
		t.Errorf("results not in descending confidence order: %v", results)
	}
	if results[0].Confidence < 0.99 {
		t.Errorf("exact exemplar match should score ~1, got %v", results[0].Confidence)
	}
}

func TestClassifyUsesMaxExemplarSimilarity(t *testing.T) {
	c := newTestClassifier(t)

	// "bye" is the second farewell exemplar; max over exemplars must still
	// put farewell on top.
	results, err := c.Classify(context.Background(), "bye")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if results[0].Label != "farewell" {
		t.Errorf("expected farewell on top, got %s", results[0].Label)
	}
}

func TestClassifyEmptyUtterance(t *testing.T) {
	c := newTestClassifier(t)

	for _, utterance := range []string{"", "   ", "\t\n"} {
		results, err := c.Classify(context.Background(), utterance)
		if err != nil {
			t.Fatalf("Classify(%q): %v", utterance, err)
		}
		if len(results) != 0 {
			t.Errorf("Classify(%q): expected empty results, got %v", utterance, results)
		}
	}
}

func TestClassifyNormalizesCase(t *testing.T) {
	c := newTestClassifier(t)

	upper, err := c.Classify(context.Background(), "  HELLO  ")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	lower, err := c.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if upper[0].Label != lower[0].Label || upper[0].Confidence != lower[0].Confidence {
		t.Errorf("case/whitespace normalization changed the result: %v vs %v", upper[0], lower[0])
	}
}

func TestClassifyTieBreaksByCatalogOrder(t *testing.T) {
	// Two entries whose exemplars are identical vectors: a perfect tie.
	emb := &stubEmbedder{vectors: map[string][]float64{
		"ping": {1, 0, 0},
		"pong": {1, 0, 0},
		"probe": {1, 0, 0},
	}}
	entries := []Entry{
		{Label: "first", Exemplars: []string{"ping"}},
		{Label: "second", Exemplars: []string{"pong"}},
	}
	c, err := NewClassifier(context.Background(), emb, entries)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	for i := 0; i < 5; i++ {
		results, err := c.Classify(context.Background(), "probe")
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if results[0].Label != "first" || results[1].Label != "second" {
			t.Fatalf("tie not broken by catalog order on run %d: %v", i, results)
		}
		if results[0].Confidence != results[1].Confidence {
			t.Fatalf("expected a tie, got %v", results)
		}
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite clamped to zero", []float64{1, 0}, []float64{-1, 0}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"dimension mismatch", []float64{1}, []float64{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosine(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
