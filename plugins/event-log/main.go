// Package main is a hook that appends every interaction event it receives
// to a JSON lines file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Request mirrors the hook request written by hologram.
type Request struct {
	Event    string     `json:"event"`
	Session  string     `json:"session"`
	Position [3]float64 `json:"position"`
	Scale    float64    `json:"scale"`
	State    string     `json:"state"`
	At       float64    `json:"at"`
}

// Response is written to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type entry struct {
	Request
	LoggedAt time.Time `json:"logged_at"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	path := logPath()
	if err := appendEntry(path, entry{Request: req, LoggedAt: time.Now()}); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("append %s: %v", path, err)})
		return
	}

	data, _ := json.Marshal(map[string]string{"file": path})
	writeResponse(Response{Success: true, Data: data})
}

// logPath honours HOLOGRAM_EVENT_LOG and otherwise writes next to the hook.
func logPath() string {
	if p := os.Getenv("HOLOGRAM_EVENT_LOG"); p != "" {
		return p
	}
	return filepath.Join(".", "events.log")
}

func appendEntry(path string, e entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(e)
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
