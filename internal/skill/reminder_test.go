package skill

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nadzzz/hearth/internal/store"
)

func newFileReminder(t *testing.T) (*Reminder, *store.FileStore) {
	t.Helper()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "reminders.jsonl"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewReminder(fs), fs
}

func TestReminderCreateThenList(t *testing.T) {
	r, fs := newFileReminder(t)
	sess := newTestSession()

	resp, err := r.Handle(context.Background(), &Request{
		Label:     "reminder.create",
		Utterance: "remind me to buy milk",
		Slots:     Slots{"text": "buy milk"},
		Session:   sess,
	})
	if err != nil {
		t.Fatalf("Handle(create): %v", err)
	}
	if !strings.Contains(resp.Text, "buy milk") {
		t.Errorf("confirmation %q does not echo the reminder text", resp.Text)
	}
	if len(sess.Reminders) != 1 {
		t.Fatalf("expected 1 reminder in session, got %d", len(sess.Reminders))
	}

	// The reminder must also be durable.
	persisted, err := fs.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(persisted) != 1 || persisted[0].Text != "buy milk" {
		t.Fatalf("expected persisted reminder, got %+v", persisted)
	}

	resp, err = r.Handle(context.Background(), &Request{Label: "reminder.list", Session: sess})
	if err != nil {
		t.Fatalf("Handle(list): %v", err)
	}
	if strings.Count(resp.Text, "buy milk") != 1 {
		t.Errorf("list %q should mention the reminder exactly once", resp.Text)
	}
}

func TestReminderListOrderAndCounts(t *testing.T) {
	r, _ := newFileReminder(t)
	sess := newTestSession()

	resp, err := r.Handle(context.Background(), &Request{Label: "reminder.list", Session: sess})
	if err != nil {
		t.Fatalf("Handle(list): %v", err)
	}
	if resp.Text != "You have no reminders." {
		t.Errorf("empty list response = %q", resp.Text)
	}

	for _, text := range []string{"feed the cat", "water the plants"} {
		if _, err := r.Handle(context.Background(), &Request{
			Label:   "reminder.create",
			Slots:   Slots{"text": text},
			Session: sess,
		}); err != nil {
			t.Fatalf("Handle(create %q): %v", text, err)
		}
	}

	resp, err = r.Handle(context.Background(), &Request{Label: "reminder.list", Session: sess})
	if err != nil {
		t.Fatalf("Handle(list): %v", err)
	}
	if !strings.Contains(resp.Text, "2 reminders") {
		t.Errorf("list %q should announce the count", resp.Text)
	}
	if strings.Index(resp.Text, "feed the cat") > strings.Index(resp.Text, "water the plants") {
		t.Errorf("list %q not in creation order", resp.Text)
	}
}

func TestReminderCreateMissingSlot(t *testing.T) {
	r, fs := newFileReminder(t)
	sess := newTestSession()

	resp, err := r.Handle(context.Background(), &Request{
		Label:   "reminder.create",
		Slots:   Slots{},
		Session: sess,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Text, "remind you about") {
		t.Errorf("expected clarifying question, got %q", resp.Text)
	}
	if len(sess.Reminders) != 0 {
		t.Error("missing slot must not mutate session state")
	}
	if persisted, _ := fs.LoadAll(); len(persisted) != 0 {
		t.Error("missing slot must not persist anything")
	}
}

type failingStore struct{}

func (failingStore) Append(store.Reminder) error        { return errors.New("disk full") }
func (failingStore) LoadAll() ([]store.Reminder, error) { return nil, nil }

func TestReminderStoreFailureIsSpoken(t *testing.T) {
	r := NewReminder(failingStore{})
	r.Now = func() time.Time { return time.Unix(0, 0) }
	sess := newTestSession()

	resp, err := r.Handle(context.Background(), &Request{
		Label:   "reminder.create",
		Slots:   Slots{"text": "doomed"},
		Session: sess,
	})
	if err != nil {
		t.Fatalf("storage failure must be converted to a spoken response, got error: %v", err)
	}
	if !strings.Contains(resp.Text, "trouble saving") {
		t.Errorf("response %q does not apologize for the failed save", resp.Text)
	}
	if len(sess.Reminders) != 0 {
		t.Errorf("failed persist must not leave the reminder in the session, got %d", len(sess.Reminders))
	}

	// The invited retry starts from a clean slate.
	resp, err = r.Handle(context.Background(), &Request{
		Label:   "reminder.list",
		Session: sess,
	})
	if err != nil {
		t.Fatalf("Handle(list): %v", err)
	}
	if resp.Text != "You have no reminders." {
		t.Errorf("list after failed save = %q, want the empty-list response", resp.Text)
	}
}
