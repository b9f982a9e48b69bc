// Package source defines the interface for pluggable utterance sources.
//
// A source is where transcribed user speech enters the turn loop: the
// interactive console, or an HTTP/WebSocket push surface fed by an external
// speech-to-text frontend. The loop doesn't care how utterances arrive — it
// only works with the Source contract.
package source

import (
	"context"
	"errors"
)

// ErrClosed is returned by Next once a source has permanently stopped
// producing utterances.
var ErrClosed = errors.New("source closed")

// Utterance is one transcribed user turn. Push-style sources attach a reply
// channel so the caller's HTTP request can carry the response back.
type Utterance struct {
	Text string

	reply chan string
}

// NewUtterance creates an utterance without a reply channel.
func NewUtterance(text string) *Utterance {
	return &Utterance{Text: text}
}

// Respond delivers the spoken response text back to the utterance's origin.
// It is a no-op for sources that have no return path.
func (u *Utterance) Respond(text string) {
	if u.reply == nil {
		return
	}
	select {
	case u.reply <- text:
	default:
	}
}

// Source is the interface every utterance source must implement.
type Source interface {
	// Name returns the source identifier (e.g., "console", "http").
	Name() string

	// Next blocks until the next utterance arrives. A (nil, nil) return
	// means the listen window timed out and the caller should listen
	// again; ErrClosed means the source is done for good.
	Next(ctx context.Context) (*Utterance, error)

	// Close stops the source. Pending Next calls return ErrClosed.
	Close() error
}
