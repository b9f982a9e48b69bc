// Package dispatch routes classified utterances to their skill handlers.
//
// The dispatcher applies the confidence threshold, extracts slots for the
// winning label and contains every per-turn failure: a classifier or handler
// error becomes a spoken apology, never a crash of the turn loop.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nadzzz/hearth/internal/intent"
	"github.com/nadzzz/hearth/internal/session"
	"github.com/nadzzz/hearth/internal/skill"
)

const (
	fallbackText   = "Sorry, I'm not sure what you mean. You can ask me about reminders, your devices, the weather, or to search for something."
	classifyText   = "I'm having trouble understanding right now. Please try again in a moment."
	handlerFailure = "I couldn't complete that. Please try again."
)

// Classifier scores an utterance against the intent catalog.
type Classifier interface {
	Classify(ctx context.Context, utterance string) ([]intent.Result, error)
}

// Dispatcher is the per-turn router from utterance to spoken response.
type Dispatcher struct {
	classifier Classifier
	registry   *skill.Registry
	threshold  float64
}

// New builds the dispatcher and verifies that every catalog label has a
// registered skill, so routing is total before the first turn.
func New(classifier Classifier, registry *skill.Registry, labels []string, threshold float64) (*Dispatcher, error) {
	if err := registry.Verify(labels); err != nil {
		return nil, fmt.Errorf("verifying skill registry: %w", err)
	}
	return &Dispatcher{classifier: classifier, registry: registry, threshold: threshold}, nil
}

// Dispatch handles one utterance end to end and always produces a response.
// Errors from the classifier or the winning skill are logged and replaced by
// an apology so the turn loop keeps running.
func (d *Dispatcher) Dispatch(ctx context.Context, utterance string, sess *session.State) *skill.Response {
	results, err := d.classifier.Classify(ctx, utterance)
	if err != nil {
		slog.Error("classification failed", "error", err)
		return &skill.Response{Text: classifyText}
	}
	if len(results) == 0 {
		return &skill.Response{Text: fallbackText}
	}

	top := results[0]
	slog.Debug("classified utterance", "label", top.Label, "confidence", top.Confidence)

	if top.Confidence < d.threshold {
		// Low-confidence questions are still worth a search attempt.
		if looksLikeQuestion(utterance) {
			slog.Info("below threshold, routing question to search",
				"label", top.Label, "confidence", top.Confidence)
			return d.invoke(ctx, "web_search.query", utterance, sess)
		}
		return &skill.Response{Text: fallbackText}
	}

	return d.invoke(ctx, top.Label, utterance, sess)
}

func (d *Dispatcher) invoke(ctx context.Context, label, utterance string, sess *session.State) *skill.Response {
	handler, ok := d.registry.Lookup(label)
	if !ok {
		// Verify makes this unreachable for catalog labels.
		slog.Error("no skill for label", "label", label)
		return &skill.Response{Text: fallbackText}
	}

	req := &skill.Request{
		Label:     label,
		Utterance: utterance,
		Slots:     Extract(label, utterance, sess),
		Session:   sess,
	}
	sess.LastIntent = label

	resp, err := handler.Handle(ctx, req)
	if err != nil {
		slog.Error("skill failed", "skill", handler.Name(), "label", label, "error", err)
		return &skill.Response{Text: handlerFailure}
	}
	return resp
}

var questionWords = []string{"what", "who", "where", "when", "why", "how", "which"}

// looksLikeQuestion reports whether an utterance reads like a factual
// question worth forwarding to the search skill.
func looksLikeQuestion(utterance string) bool {
	fields := strings.Fields(strings.ToLower(utterance))
	if len(fields) == 0 {
		return false
	}
	for _, w := range questionWords {
		if fields[0] == w {
			return true
		}
	}
	return strings.HasSuffix(strings.TrimSpace(utterance), "?")
}
