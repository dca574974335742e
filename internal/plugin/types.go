// Package plugin runs external hook executables when interaction events
// happen. Hooks live in their own directories next to a plugin.json
// manifest and talk JSON over stdin/stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a hook and the interaction events it subscribes to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Handles reports whether the hook subscribed to event. An empty
// subscription list matches every event.
func (m *Manifest) Handles(event string) bool {
	return len(m.Events) == 0 || slices.Contains(m.Events, event)
}

// Request is written to the hook's stdin.
type Request struct {
	Event    string     `json:"event"`
	Session  string     `json:"session"`
	Position [3]float64 `json:"position"`
	Scale    float64    `json:"scale"`
	State    string     `json:"state"`
	At       float64    `json:"at"`
}

// Response is read from the hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered hook with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
