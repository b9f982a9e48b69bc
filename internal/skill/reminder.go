package skill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nadzzz/hearth/internal/store"
)

// Reminder creates and lists reminders, persisting each new one through the
// durable store.
type Reminder struct {
	store store.Store

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewReminder creates the reminder skill.
func NewReminder(s store.Store) *Reminder {
	return &Reminder{store: s, Now: time.Now}
}

func (r *Reminder) Name() string { return "reminder" }

func (r *Reminder) Labels() []string {
	return []string{"reminder.create", "reminder.list"}
}

func (r *Reminder) Handle(_ context.Context, req *Request) (*Response, error) {
	switch req.Label {
	case "reminder.create":
		return r.create(req)
	case "reminder.list":
		return r.list(req)
	default:
		return nil, fmt.Errorf("reminder: unexpected label %q", req.Label)
	}
}

func (r *Reminder) create(req *Request) (*Response, error) {
	text := strings.TrimSpace(req.Slots.Get("text"))
	if text == "" {
		// Required slot missing: clarify, mutate nothing.
		return &Response{Text: "What would you like me to remind you about?"}, nil
	}

	rec := store.Reminder{Text: text, CreatedAt: r.Now()}

	// Persist first: the session only ever holds reminders that survive a
	// restart, and the invited retry cannot duplicate an in-memory entry.
	if err := r.store.Append(rec); err != nil {
		slog.Warn("persisting reminder failed", "error", err)
		return &Response{Text: "I had trouble saving that reminder. Please try again."}, nil
	}

	req.Session.Reminders = append(req.Session.Reminders, rec)
	return &Response{Text: fmt.Sprintf("Got it! I've added a reminder: %s.", text)}, nil
}

func (r *Reminder) list(req *Request) (*Response, error) {
	reminders := req.Session.Reminders
	switch len(reminders) {
	case 0:
		return &Response{Text: "You have no reminders."}, nil
	case 1:
		return &Response{Text: fmt.Sprintf("You have 1 reminder: %s.", reminders[0].Text)}, nil
	}

	parts := make([]string, len(reminders))
	for i, rec := range reminders {
		parts[i] = fmt.Sprintf("%d, %s", i+1, rec.Text)
	}
	return &Response{
		Text: fmt.Sprintf("You have %d reminders: %s.", len(reminders), strings.Join(parts, ". ")),
	}, nil
}
