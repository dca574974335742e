package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "config", "--data-dir", dir)
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, dir, cfg["data_dir"])
	assert.Equal(t, 60, cfg["frame_rate"])
	assert.Contains(t, cfg, "filter")
}

func TestConfigCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hologram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: 30\nfilter:\n  debounce: 0.25\n"), 0644))

	out, err := run(t, "config", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "frame_rate: 30")
	assert.Contains(t, out, "debounce: 0.25")
}

func TestConfigCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hologram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: -1\n"), 0644))

	_, err := run(t, "config", "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame_rate")
}

func TestReplayCommand(t *testing.T) {
	recording := filepath.Join("..", "..", "testdata", "recordings", "drag.jsonl")

	out, err := run(t, "replay", "--events", "--data-dir", t.TempDir(), recording)
	require.NoError(t, err)

	var kinds []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var frame struct {
			Events []struct {
				Kind string `json:"kind"`
			} `json:"events"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &frame))
		for _, e := range frame.Events {
			kinds = append(kinds, e.Kind)
		}
	}
	assert.Equal(t, []string{"show", "grab", "release"}, kinds)
}

func TestReplayCommand_Journal(t *testing.T) {
	dir := t.TempDir()
	recording := filepath.Join("..", "..", "testdata", "recordings", "show_hide.jsonl")

	_, err := run(t, "replay", "--journal", "--data-dir", dir, recording)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "hologram.db"))
}

func TestReplayCommand_MissingFile(t *testing.T) {
	_, err := run(t, "replay", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestRendererURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", rendererURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000/", rendererURL("127.0.0.1:9000"))
}
