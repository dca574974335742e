// Package config loads the hologram configuration file. Every section has
// defaults, so an empty or missing file yields a runnable service.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/hologram/internal/capture"
	"github.com/ayusman/hologram/internal/detector"
	"github.com/ayusman/hologram/internal/gesture"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full service configuration.
type Config struct {
	DataDir   string          `yaml:"data_dir" json:"data_dir"`
	FrameRate int             `yaml:"frame_rate" json:"frame_rate"`
	Tray      bool            `yaml:"tray" json:"tray"`
	Server    Server          `yaml:"server" json:"server"`
	Capture   capture.Config  `yaml:"capture" json:"capture"`
	Detector  detector.Config `yaml:"detector" json:"detector"`
	Filter    gesture.Config  `yaml:"filter" json:"filter"`
	Hooks     Hooks           `yaml:"hooks" json:"hooks"`
	Log       Log             `yaml:"log" json:"log"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr      string `yaml:"addr" json:"addr"`
	StaticDir string `yaml:"static_dir" json:"static_dir"`
	// PoseRate caps pose broadcasts per WebSocket client, in Hz.
	PoseRate int `yaml:"pose_rate" json:"pose_rate"`
}

// Hooks configures event hook execution.
type Hooks struct {
	Dir       string `yaml:"dir" json:"dir"`
	TimeoutMs int    `yaml:"timeout_ms" json:"timeout_ms"`
	Queue     int    `yaml:"queue" json:"queue"`
}

// Timeout returns the per-invocation hook timeout.
func (h Hooks) Timeout() time.Duration {
	return time.Duration(h.TimeoutMs) * time.Millisecond
}

// Log configures log output. An empty File logs to stderr, "-" to stdout.
type Log struct {
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
	Append     bool   `yaml:"append" json:"append"`
	Console    bool   `yaml:"console" json:"console"`
}

// Default returns the built-in configuration rooted at ~/.hologram.
func Default() Config {
	dataDir := ".hologram"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".hologram")
	}

	return Config{
		DataDir:   dataDir,
		FrameRate: 60,
		Tray:      true,
		Server: Server{
			Addr:     ":8080",
			PoseRate: 30,
		},
		Capture:  capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Filter:   gesture.DefaultConfig(),
		Hooks: Hooks{
			TimeoutMs: 5000,
			Queue:     64,
		},
		Log: Log{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			Append:     true,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := cfg.Decode(f); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode overlays YAML from r onto cfg. Unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Encode writes cfg as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("frame_rate %d must be in (0, 240]", c.FrameRate))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.PoseRate <= 0 {
		errs = append(errs, fmt.Errorf("server.pose_rate %d must be positive", c.Server.PoseRate))
	}
	if c.Hooks.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("hooks.timeout_ms %d must be positive", c.Hooks.TimeoutMs))
	}
	if c.Detector.MaxHands <= 0 {
		errs = append(errs, fmt.Errorf("detector.max_hands %d must be positive", c.Detector.MaxHands))
	}
	if err := c.Capture.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Filter.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// DBPath is the SQLite journal location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "hologram.db")
}

// HookDir is the configured hook directory, defaulting to <data_dir>/plugins.
func (c Config) HookDir() string {
	if c.Hooks.Dir != "" {
		return c.Hooks.Dir
	}
	return filepath.Join(c.DataDir, "plugins")
}
