package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "HOLOGRAM_"

// LoadEnv copies KEY=value pairs from a dotenv file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays HOLOGRAM_* variables found by lookup onto cfg.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DATA_DIR":   &c.DataDir,
		"ADDR":       &c.Server.Addr,
		"STATIC_DIR": &c.Server.StaticDir,
		"HOOK_DIR":   &c.Hooks.Dir,
		"LOG_FILE":   &c.Log.File,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CAMERA":     &c.Capture.Device,
		"FRAME_RATE": &c.FrameRate,
		"POSE_RATE":  &c.Server.PoseRate,
	}
	var errs []error
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			continue
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "TRAY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTRAY: %w", EnvPrefix, err))
		} else {
			c.Tray = b
		}
	}
	return errors.Join(errs...)
}
