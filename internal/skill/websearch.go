package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nadzzz/hearth/internal/search"
)

// WebSearch answers free-form questions through the knowledge lookup
// collaborator, truncating summaries to a speakable length.
type WebSearch struct {
	lookup   search.Lookup
	maxChars int
}

// NewWebSearch creates the web search skill. maxChars bounds the spoken
// summary length.
func NewWebSearch(lookup search.Lookup, maxChars int) *WebSearch {
	return &WebSearch{lookup: lookup, maxChars: maxChars}
}

func (w *WebSearch) Name() string { return "web_search" }

func (w *WebSearch) Labels() []string { return []string{"web_search.query"} }

func (w *WebSearch) Handle(ctx context.Context, req *Request) (*Response, error) {
	query := strings.TrimSpace(req.Slots.Get("query"))

	// "tell me more" style follow-up: reuse the previous query.
	if query == "" && req.Session.LastQuery != "" && strings.Contains(strings.ToLower(req.Utterance), "more") {
		query = req.Session.LastQuery
	}
	if query == "" {
		return &Response{Text: "What would you like me to search for?"}, nil
	}

	summary, err := w.lookup.Lookup(ctx, query)
	switch {
	case errors.Is(err, search.ErrNotFound):
		return &Response{Text: fmt.Sprintf("I couldn't find anything about %s. Try asking a more specific question.", query)}, nil
	case err != nil:
		slog.Warn("knowledge lookup failed", "query", query, "error", err)
		return &Response{Text: fmt.Sprintf("I had trouble searching for %s. Please try again.", query)}, nil
	}

	req.Session.LastQuery = query
	return &Response{Text: truncateForSpeech(summary, w.maxChars)}, nil
}

// truncateForSpeech cuts text to at most max bytes, preferring a sentence
// boundary and falling back to a word boundary. The cut never splits a
// multi-byte rune.
func truncateForSpeech(text string, max int) string {
	text = strings.TrimSpace(text)
	if max <= 0 || len(text) <= max {
		return text
	}

	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	cut := text[:max]
	if i := strings.LastIndexAny(cut, ".!?"); i > max/2 {
		return strings.TrimSpace(cut[:i+1])
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}
