package tts

import (
	"bytes"
	"context"
	"testing"
)

func TestConsoleSinkPrintsResponse(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsole(&buf)

	if err := sink.Speak(context.Background(), "Hello! How can I help?"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if got := buf.String(); got != "Hearth: Hello! How can I help?\n" {
		t.Errorf("output = %q", got)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
