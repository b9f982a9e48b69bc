package skill

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConversationTimeAndDate(t *testing.T) {
	c := NewConversation()
	c.Now = func() time.Time {
		return time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	}

	resp, err := c.Handle(context.Background(), &Request{Label: "conversation.time", Session: newTestSession()})
	if err != nil {
		t.Fatalf("Handle(time): %v", err)
	}
	if !strings.Contains(resp.Text, "2:30 PM") {
		t.Errorf("time response %q does not contain 2:30 PM", resp.Text)
	}

	resp, err = c.Handle(context.Background(), &Request{Label: "conversation.date", Session: newTestSession()})
	if err != nil {
		t.Fatalf("Handle(date): %v", err)
	}
	if !strings.Contains(resp.Text, "Tuesday, March 5, 2024") {
		t.Errorf("date response %q does not contain the date", resp.Text)
	}
}

func TestConversationCannedReplies(t *testing.T) {
	c := NewConversation()

	tests := []struct {
		label string
		pool  []string
	}{
		{"conversation.greet", greetings},
		{"conversation.how_are_you", howAreYouReplies},
		{"conversation.thank", thankReplies},
		{"conversation.name", nameReplies},
		{"conversation.help", helpReplies},
		{"conversation.joke", jokes},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			resp, err := c.Handle(context.Background(), &Request{Label: tt.label, Session: newTestSession()})
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			found := false
			for _, option := range tt.pool {
				if resp.Text == option {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("response %q is not from the canned pool", resp.Text)
			}
			if resp.Terminate {
				t.Error("conversation skill must never terminate the loop")
			}
		})
	}
}

func TestConversationUnknownLabel(t *testing.T) {
	c := NewConversation()
	if _, err := c.Handle(context.Background(), &Request{Label: "conversation.nope"}); err == nil {
		t.Fatal("expected error for unregistered label")
	}
}
