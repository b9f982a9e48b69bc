// Package skill implements the intent handlers and their registry.
//
// A skill owns the business logic for one group of intent labels. The
// dispatcher routes a classified utterance to exactly one skill; the skill
// may mutate the session state and returns the response to speak.
package skill

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nadzzz/hearth/internal/session"
)

// Slots holds the values extracted from an utterance for one dispatch call.
type Slots map[string]string

// Get returns the named slot value, or "" when absent.
func (s Slots) Get(name string) string { return s[name] }

// Int returns the named slot parsed as an integer.
func (s Slots) Int(name string) (int, bool) {
	v, ok := s[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Request carries everything a skill needs to handle one turn.
type Request struct {
	Label     string
	Utterance string
	Slots     Slots
	Session   *session.State
}

// Response is a skill's answer for one turn. Terminate requests that the
// turn loop end after the response is spoken; only the exit skill sets it.
type Response struct {
	Text      string
	Terminate bool
}

// Skill handles one or more intent labels.
type Skill interface {
	// Name returns the skill identifier (e.g., "reminder").
	Name() string

	// Labels returns the intent labels this skill handles.
	Labels() []string

	// Handle processes one dispatched turn. It may mutate req.Session.
	// A returned error is contained by the dispatcher and never crashes
	// the turn loop.
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// Registry maps intent labels to their handlers. It is built once at startup
// and read-only afterwards, so label lookup is a plain map access.
type Registry struct {
	byLabel map[string]Skill
}

// NewRegistry builds a registry from the given skills. Two skills claiming
// the same label is a configuration error.
func NewRegistry(skills ...Skill) (*Registry, error) {
	byLabel := make(map[string]Skill)
	for _, s := range skills {
		for _, label := range s.Labels() {
			if prev, ok := byLabel[label]; ok {
				return nil, fmt.Errorf("label %q claimed by both %s and %s", label, prev.Name(), s.Name())
			}
			byLabel[label] = s
		}
	}
	return &Registry{byLabel: byLabel}, nil
}

// Lookup returns the skill registered for a label.
func (r *Registry) Lookup(label string) (Skill, bool) {
	s, ok := r.byLabel[label]
	return s, ok
}

// Verify checks that every given catalog label has a registered handler.
// Dispatch must be a total function over the catalog; a gap here is fatal
// at startup.
func (r *Registry) Verify(labels []string) error {
	for _, label := range labels {
		if _, ok := r.byLabel[label]; !ok {
			return fmt.Errorf("intent label %q has no registered skill", label)
		}
	}
	return nil
}
