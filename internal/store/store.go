// Package store persists reminders to durable storage.
//
// The file store keeps one JSON object per line. Each write is a single
// appending write of a complete line, so a crash mid-run never leaves a
// torn record: a partially written trailing line is skipped on the next load.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Reminder is the durable reminder record.
type Reminder struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the durable reminder storage contract.
type Store interface {
	// Append durably adds one reminder.
	Append(r Reminder) error

	// LoadAll returns every stored reminder in creation order.
	LoadAll() ([]Reminder, error)
}

// FileStore implements Store on a local JSON Lines file.
type FileStore struct {
	path string
}

// NewFileStore creates a file store at the given path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating reminder directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Append writes the reminder as one complete line. The record is marshalled
// first so the file write is a single call on an O_APPEND descriptor.
func (s *FileStore) Append(r Reminder) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshalling reminder: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening reminder file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("appending reminder: %w", err)
	}
	return nil
}

// LoadAll reads the file back. A missing file yields an empty list. Corrupt
// lines are skipped with a warning rather than discarding the whole file.
func (s *FileStore) LoadAll() ([]Reminder, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening reminder file: %w", err)
	}
	defer f.Close()

	var reminders []Reminder
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var r Reminder
		if err := json.Unmarshal(raw, &r); err != nil {
			slog.Warn("skipping corrupt reminder record", "path", s.path, "line", line, "error", err)
			continue
		}
		reminders = append(reminders, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reminder file: %w", err)
	}
	return reminders, nil
}
