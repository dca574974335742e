// Package main is a hook that raises a desktop notification when the
// hologram is grabbed or released. It uses AppleScript on macOS and
// notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
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

var messages = map[string]string{
	"show":    "Hologram shown",
	"hide":    "Hologram hidden",
	"grab":    "Hologram grabbed",
	"release": "Hologram released at (%.2f, %.2f)",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	format, ok := messages[req.Event]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	text := format
	if req.Event == "release" {
		text = fmt.Sprintf(format, req.Position[0], req.Position[1])
	}

	if err := notify("hologram", text); err != nil {
		writeErrorResponse(fmt.Sprintf("notify failed: %v", err))
		return
	}

	writeSuccessResponse()
}

func notify(title, text string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %q with title %q", text, title)
		cmd = exec.Command("osascript", "-e", script)
	} else {
		cmd = exec.Command("notify-send", title, text)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}
