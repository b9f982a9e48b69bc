package skill

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nadzzz/hearth/internal/search"
)

type fakeLookup struct {
	summary string
	err     error
	queries []string
}

func (f *fakeLookup) Lookup(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.summary, f.err
}

func TestWebSearchHappyPath(t *testing.T) {
	lookup := &fakeLookup{summary: "Go is a programming language designed at Google."}
	w := NewWebSearch(lookup, 300)
	sess := newTestSession()

	resp, err := w.Handle(context.Background(), &Request{
		Label:     "web_search.query",
		Utterance: "what is go",
		Slots:     Slots{"query": "go"},
		Session:   sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Text != lookup.summary {
		t.Errorf("unexpected response: %q", resp.Text)
	}
	if sess.LastQuery != "go" {
		t.Errorf("LastQuery = %q, want go", sess.LastQuery)
	}
}

func TestWebSearchTruncates(t *testing.T) {
	long := strings.Repeat("word ", 100) + "tail"
	w := NewWebSearch(&fakeLookup{summary: long}, 80)

	resp, err := w.Handle(context.Background(), &Request{
		Label:   "web_search.query",
		Slots:   Slots{"query": "anything"},
		Session: newTestSession(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(resp.Text) > 84 { // max + ellipsis
		t.Errorf("response not truncated: %d chars", len(resp.Text))
	}
}

func TestWebSearchFailuresAreSpoken(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", search.ErrNotFound, "couldn't find"},
		{"collaborator failure", errors.New("network down"), "had trouble"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWebSearch(&fakeLookup{err: tt.err}, 300)
			sess := newTestSession()
			resp, err := w.Handle(context.Background(), &Request{
				Label:   "web_search.query",
				Slots:   Slots{"query": "doomed"},
				Session: sess,
			})
			if err != nil {
				t.Fatalf("failures must be converted to spoken responses, got error: %v", err)
			}
			if !strings.Contains(resp.Text, tt.want) {
				t.Errorf("response %q does not contain %q", resp.Text, tt.want)
			}
			if sess.LastQuery != "" {
				t.Errorf("LastQuery mutated on failure: %q", sess.LastQuery)
			}
		})
	}
}

func TestWebSearchEmptyQueryAsksForOne(t *testing.T) {
	w := NewWebSearch(&fakeLookup{}, 300)
	resp, err := w.Handle(context.Background(), &Request{
		Label:   "web_search.query",
		Slots:   Slots{},
		Session: newTestSession(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "search for") {
		t.Errorf("expected a clarifying question, got %q", resp.Text)
	}
}

func TestWebSearchFollowUpReusesLastQuery(t *testing.T) {
	lookup := &fakeLookup{summary: "More detail."}
	w := NewWebSearch(lookup, 300)
	sess := newTestSession()
	sess.LastQuery = "the moon"

	_, err := w.Handle(context.Background(), &Request{
		Label:     "web_search.query",
		Utterance: "tell me more",
		Slots:     Slots{},
		Session:   sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(lookup.queries) != 1 || lookup.queries[0] != "the moon" {
		t.Errorf("expected follow-up to reuse last query, got %v", lookup.queries)
	}
}

func TestTruncateForSpeech(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short text untouched", "Hello there.", 100, "Hello there."},
		{"sentence boundary preferred", "First sentence. Second sentence that runs long.", 20, "First sentence."},
		{"word boundary fallback", "onelongword another third", 16, "onelongword..."},
		{"zero max untouched", "anything", 0, "anything"},
		{"multibyte rune never split", strings.Repeat("é", 20), 15, strings.Repeat("é", 7) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateForSpeech(tt.text, tt.max)
			if got != tt.want {
				t.Errorf("truncateForSpeech(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateForSpeech(%q, %d) produced invalid UTF-8", tt.text, tt.max)
			}
		})
	}
}
