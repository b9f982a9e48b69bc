// Package tts turns the assistant's text responses into audible speech.
//
// The turn loop talks to a Sink: either the console sink, which prints
// responses, or the spoken sink, which synthesizes audio through a
// Synthesizer backend and plays it on the local speaker.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// SynthesizeResult holds the output of speech synthesis.
type SynthesizeResult struct {
	// Audio is the synthesized audio as a WAV file.
	Audio []byte

	// ContentType is the MIME type of the audio (e.g., "audio/wav").
	ContentType string

	// SampleRate is the audio sample rate in Hz (e.g., 22050).
	SampleRate int

	// Channels is the number of audio channels (typically 1).
	Channels int
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates a WAV file from the given text.
	Synthesize(ctx context.Context, text string) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// Sink delivers one response to the user.
type Sink interface {
	// Speak emits the response. It blocks until delivery finishes.
	Speak(ctx context.Context, text string) error

	// Close releases the sink.
	Close() error
}

// Console prints responses instead of speaking them.
type Console struct {
	w io.Writer
}

// NewConsole creates a sink that writes responses to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.w, "Hearth: %s\n", text)
	return err
}

func (c *Console) Close() error { return nil }

// Spoken synthesizes responses and plays them on the local speaker.
type Spoken struct {
	synth Synthesizer

	initOnce sync.Once
	initErr  error
}

// NewSpoken creates a sink backed by the given synthesizer.
func NewSpoken(synth Synthesizer) *Spoken {
	return &Spoken{synth: synth}
}

// Speak synthesizes the text and blocks until playback completes.
func (s *Spoken) Speak(ctx context.Context, text string) error {
	result, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}

	streamer, format, err := wav.Decode(bytes.NewReader(result.Audio))
	if err != nil {
		return fmt.Errorf("decoding synthesized wav: %w", err)
	}
	defer streamer.Close()

	// The speaker is initialized once, at the sample rate of the first
	// utterance. Piper keeps the rate constant per voice.
	s.initOnce.Do(func() {
		s.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if s.initErr != nil {
		return fmt.Errorf("initializing speaker: %w", s.initErr)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}

	slog.Debug("spoke response", "chars", len(text), "audio_bytes", len(result.Audio))
	return nil
}

func (s *Spoken) Close() error {
	return s.synth.Close()
}
