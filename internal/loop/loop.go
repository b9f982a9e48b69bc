// Package loop runs the conversational turn loop.
//
// One iteration is a turn: wait for an utterance, classify and dispatch it,
// speak the response, then listen again. The loop owns the session state for
// its whole lifetime, so skills never need locks.
package loop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nadzzz/hearth/internal/dispatch"
	"github.com/nadzzz/hearth/internal/session"
	"github.com/nadzzz/hearth/internal/skill"
	"github.com/nadzzz/hearth/internal/source"
	"github.com/nadzzz/hearth/internal/tts"
)

// State is the turn loop's current phase.
type State int

const (
	StateListening State = iota
	StateClassifying
	StateDispatching
	StateSpeaking
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateClassifying:
		return "classifying"
	case StateDispatching:
		return "dispatching"
	case StateSpeaking:
		return "speaking"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Dispatcher routes one utterance to its response.
type Dispatcher interface {
	Dispatch(ctx context.Context, utterance string, sess *session.State) *skill.Response
}

var _ Dispatcher = (*dispatch.Dispatcher)(nil)

// Loop drives turns from a source through the dispatcher to a sink.
type Loop struct {
	source     source.Source
	dispatcher Dispatcher
	sink       tts.Sink
	session    *session.State
	welcome    string

	state State
}

// New creates a turn loop. welcome, when non-empty, is spoken once before
// the first listen.
func New(src source.Source, d Dispatcher, sink tts.Sink, sess *session.State, welcome string) *Loop {
	return &Loop{
		source:     src,
		dispatcher: d,
		sink:       sink,
		session:    sess,
		welcome:    welcome,
	}
}

// State returns the loop's current phase.
func (l *Loop) State() State { return l.state }

// Run executes turns until the source closes, the context is cancelled or a
// skill requests termination. Per-turn failures never stop it: speak errors
// are logged and the loop listens again.
func (l *Loop) Run(ctx context.Context) error {
	if l.welcome != "" {
		l.speak(ctx, l.welcome)
	}

	turn := 0
	for {
		l.transition(StateListening)

		ut, err := l.source.Next(ctx)
		switch {
		case errors.Is(err, source.ErrClosed):
			slog.Info("source closed, ending conversation")
			l.transition(StateTerminated)
			return nil
		case err != nil:
			l.transition(StateTerminated)
			return err
		case ut == nil:
			// Empty listen window; keep listening.
			continue
		}

		turn++
		logger := slog.With("turn", turn)
		logger.Debug("utterance received", "chars", len(ut.Text))

		l.transition(StateClassifying)
		l.transition(StateDispatching)
		resp := l.dispatcher.Dispatch(ctx, ut.Text, l.session)

		l.transition(StateSpeaking)
		ut.Respond(resp.Text)
		l.speak(ctx, resp.Text)
		logger.Debug("turn complete", "terminate", resp.Terminate)

		if resp.Terminate {
			l.transition(StateTerminated)
			return nil
		}
	}
}

func (l *Loop) transition(next State) {
	if l.state == next {
		return
	}
	slog.Debug("turn state", "from", l.state, "to", next)
	l.state = next
}

func (l *Loop) speak(ctx context.Context, text string) {
	if err := l.sink.Speak(ctx, text); err != nil {
		slog.Error("speaking response failed", "error", err)
	}
}
