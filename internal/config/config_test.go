package config

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hologram.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.FrameRate)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.5, cfg.Filter.Debounce)
	assert.Equal(t, 5*time.Second, cfg.Hooks.Timeout())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/hologram
frame_rate: 30
server:
  addr: 127.0.0.1:9000
capture:
  device: 2
filter:
  grab_radius: 2.5
  debounce: 0.25
hooks:
  dir: /etc/hologram/hooks
log:
  file: /var/log/hologram.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/hologram", cfg.DataDir)
	assert.Equal(t, 30, cfg.FrameRate)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.PoseRate, "untouched keys keep their defaults")
	assert.Equal(t, 2, cfg.Capture.Device)
	assert.Equal(t, 640, cfg.Capture.Width)
	assert.Equal(t, 2.5, cfg.Filter.GrabRadius)
	assert.Equal(t, 0.25, cfg.Filter.Debounce)
	assert.Equal(t, 0.05, cfg.Filter.PinchThreshold)
	assert.Equal(t, "/var/lib/hologram/hologram.db", cfg.DBPath())
	assert.Equal(t, "/etc/hologram/hooks", cfg.HookDir())
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "filter:\n  grab_radious: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grab_radious")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "frame_rate: 0\nfilter:\n  pinch_threshold: -1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "frame_rate")
	assert.Contains(t, err.Error(), "pinch_threshold")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"frame rate too high", func(c *Config) { c.FrameRate = 1000 }, "frame_rate"},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero pose rate", func(c *Config) { c.Server.PoseRate = 0 }, "pose_rate"},
		{"zero hook timeout", func(c *Config) { c.Hooks.TimeoutMs = 0 }, "timeout_ms"},
		{"zero hands", func(c *Config) { c.Detector.MaxHands = 0 }, "max_hands"},
		{"bad capture", func(c *Config) { c.Capture.IdleFPS = 0 }, "capture"},
		{"bad filter", func(c *Config) { c.Filter.GrabRadius = 0 }, "grab_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Filter.GrabRadius = 3
	cfg.Capture.Device = 1

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "grab_radius: 3")

	decoded := Default()
	require.NoError(t, decoded.Decode(&buf))
	assert.Equal(t, cfg, decoded)
}

func TestHookDirDefault(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "plugins"), cfg.HookDir())
}

func TestSetupLogging_File(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "hologram.log")
	closer := SetupLogging(Log{File: path, MaxSize: 1, Append: true})

	log.Printf("tracking started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "tracking started"))
}

func TestSetupLogging_Console(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	closer := SetupLogging(Log{})
	assert.NoError(t, closer.Close())
}
