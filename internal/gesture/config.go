// Package gesture turns per-frame hand landmarks into the pose and
// interaction state of the hologram.
package gesture

import (
	"errors"
	"fmt"
)

// Config holds the interaction policy. Every value is a tuning constant,
// not something derived from other values.
type Config struct {
	// ExtensionRatio: a digit counts as extended when its wrist-to-tip
	// distance exceeds wrist-to-joint distance times this ratio.
	ExtensionRatio float64 `yaml:"extension_ratio" json:"extension_ratio"`

	// ShowFingers or more extended digits request the hologram be shown.
	ShowFingers int `yaml:"show_fingers" json:"show_fingers"`

	// HideFingers or fewer extended digits request it be hidden. Counts in
	// between change nothing.
	HideFingers int `yaml:"hide_fingers" json:"hide_fingers"`

	// Debounce is the minimum time in seconds between accepted show/hide
	// gestures.
	Debounce float64 `yaml:"debounce" json:"debounce"`

	// ScaleRate controls how fast the scale approaches its target; the
	// remaining gap shrinks by dt*ScaleRate each frame.
	ScaleRate float64 `yaml:"scale_rate" json:"scale_rate"`

	// VisibilityFloor: at or below this scale the hologram ignores the hand.
	VisibilityFloor float64 `yaml:"visibility_floor" json:"visibility_floor"`

	// PinchThreshold is the thumb-to-index tip distance, in normalized
	// image units, below which the hand is pinching.
	PinchThreshold float64 `yaml:"pinch_threshold" json:"pinch_threshold"`

	// ProjectionX and ProjectionY map normalized image offsets from the
	// frame centre to world units.
	ProjectionX float64 `yaml:"projection_x" json:"projection_x"`
	ProjectionY float64 `yaml:"projection_y" json:"projection_y"`

	// MaxSampleInterval: frame gaps of this many seconds or more do not
	// update the velocity estimate.
	MaxSampleInterval float64 `yaml:"max_sample_interval" json:"max_sample_interval"`

	// VelocityBlend is the weight of the newest velocity sample in the
	// running estimate.
	VelocityBlend float64 `yaml:"velocity_blend" json:"velocity_blend"`

	// LookAhead is how far ahead, in seconds, the hand position is
	// extrapolated to hide detection latency.
	LookAhead float64 `yaml:"look_ahead" json:"look_ahead"`

	// GrabRadius is the world distance within which a pinch grabs the
	// hologram and an open hand hovers it. The bound is exclusive.
	GrabRadius float64 `yaml:"grab_radius" json:"grab_radius"`

	// LerpBase is the drag follow factor for a stationary hand.
	LerpBase float64 `yaml:"lerp_base" json:"lerp_base"`

	// LerpMax caps the drag follow factor.
	LerpMax float64 `yaml:"lerp_max" json:"lerp_max"`

	// SpeedDivisor converts hand speed (world units/s) into extra follow
	// factor on top of LerpBase.
	SpeedDivisor float64 `yaml:"speed_divisor" json:"speed_divisor"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ExtensionRatio:    1.2,
		ShowFingers:       4,
		HideFingers:       1,
		Debounce:          0.5,
		ScaleRate:         5,
		VisibilityFloor:   0.1,
		PinchThreshold:    0.05,
		ProjectionX:       10,
		ProjectionY:       8,
		MaxSampleInterval: 0.1,
		VelocityBlend:     0.5,
		LookAhead:         0.05,
		GrabRadius:        1.5,
		LerpBase:          0.2,
		LerpMax:           0.8,
		SpeedDivisor:      10,
	}
}

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Validate checks the config for values the filter cannot work with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.ExtensionRatio > 0, "extension_ratio must be positive, got %g", c.ExtensionRatio)
	check(c.ShowFingers >= 0 && c.ShowFingers <= 5, "show_fingers must be 0-5, got %d", c.ShowFingers)
	check(c.HideFingers >= 0 && c.HideFingers <= 5, "hide_fingers must be 0-5, got %d", c.HideFingers)
	check(c.HideFingers < c.ShowFingers, "hide_fingers (%d) must be below show_fingers (%d)", c.HideFingers, c.ShowFingers)
	check(c.Debounce >= 0, "debounce must not be negative, got %g", c.Debounce)
	check(c.ScaleRate > 0, "scale_rate must be positive, got %g", c.ScaleRate)
	check(c.VisibilityFloor >= 0 && c.VisibilityFloor < 1, "visibility_floor must be in [0,1), got %g", c.VisibilityFloor)
	check(c.PinchThreshold > 0, "pinch_threshold must be positive, got %g", c.PinchThreshold)
	check(c.ProjectionX != 0 && c.ProjectionY != 0, "projection scales must be non-zero")
	check(c.MaxSampleInterval > 0, "max_sample_interval must be positive, got %g", c.MaxSampleInterval)
	check(c.VelocityBlend > 0 && c.VelocityBlend <= 1, "velocity_blend must be in (0,1], got %g", c.VelocityBlend)
	check(c.LookAhead >= 0, "look_ahead must not be negative, got %g", c.LookAhead)
	check(c.GrabRadius > 0, "grab_radius must be positive, got %g", c.GrabRadius)
	check(c.LerpBase >= 0 && c.LerpBase <= c.LerpMax, "lerp_base (%g) must be in [0, lerp_max]", c.LerpBase)
	check(c.LerpMax > 0 && c.LerpMax <= 1, "lerp_max must be in (0,1], got %g", c.LerpMax)
	check(c.SpeedDivisor > 0, "speed_divisor must be positive, got %g", c.SpeedDivisor)

	return errors.Join(errs...)
}
