// Package session holds the per-process conversation state.
//
// The state has exactly one mutator at any time — the turn currently being
// dispatched — so no locking is needed. It is created once at startup,
// threaded explicitly through every dispatch call, and discarded at exit.
package session

import (
	"sort"
	"strings"

	"github.com/nadzzz/hearth/internal/store"
)

// Device is one simulated smart-home device.
type Device struct {
	Name        string
	Kind        string // "light", "thermostat", "door"
	Power       string // "on" or "off"
	Brightness  int    // lights only, 0-100
	Temperature int    // thermostat only, degrees Celsius
}

// State is the session state carried across turns.
type State struct {
	Reminders []store.Reminder

	// LastIntent is the label of the previous turn's matched intent.
	// Overwritten after every dispatched turn; untouched on fallback.
	LastIntent string

	// LastDevice is the most recently addressed device, used to resolve
	// "turn it off" style references.
	LastDevice string

	// LastQuery is the most recent web search query, used for "tell me more".
	LastQuery string

	devices map[string]*Device // keyed by lowercased name
}

// New creates the session state with the given simulated devices and any
// reminders rehydrated from durable storage.
func New(devices []Device, reminders []store.Reminder) *State {
	s := &State{
		Reminders: reminders,
		devices:   make(map[string]*Device, len(devices)),
	}
	for _, d := range devices {
		dev := d
		s.devices[strings.ToLower(d.Name)] = &dev
	}
	return s
}

// Device looks up a device by name, case-insensitively.
func (s *State) Device(name string) (*Device, bool) {
	d, ok := s.devices[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Devices returns all devices sorted by name. The fixed order keeps status
// reports deterministic.
func (s *State) Devices() []*Device {
	out := make([]*Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeviceNames returns all device names sorted alphabetically.
func (s *State) DeviceNames() []string {
	names := make([]string, 0, len(s.devices))
	for _, d := range s.devices {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}
