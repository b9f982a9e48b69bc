package source

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Console reads utterances line by line from an io.Reader, normally stdin.
// It stands in for a microphone during development: each line is treated as
// one already-transcribed utterance.
type Console struct {
	timeout time.Duration
	lines   chan string

	closeOnce sync.Once
	closed    chan struct{}
}

// NewConsole starts reading from r in the background. timeout bounds how
// long one Next call waits before reporting an empty listen window.
func NewConsole(r io.Reader, timeout time.Duration) *Console {
	c := &Console{
		timeout: timeout,
		lines:   make(chan string),
		closed:  make(chan struct{}),
	}

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			// The source contract delivers lowercase-normalized text.
			line := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if line == "" {
				continue
			}
			select {
			case c.lines <- line:
			case <-c.closed:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			slog.Warn("console read stopped", "error", err)
		}
		c.Close()
	}()

	return c
}

func (c *Console) Name() string { return "console" }

// Next returns the next typed line, (nil, nil) when the listen window lapses
// with no input, or ErrClosed after EOF.
func (c *Console) Next(ctx context.Context) (*Utterance, error) {
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case line := <-c.lines:
		return NewUtterance(line), nil
	case <-timer.C:
		return nil, nil
	case <-c.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Console) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}
