package gesture

import "math"

// Phase is the show/hide intent for the hologram.
type Phase int

const (
	Hidden Phase = iota
	Visible
)

func (p Phase) String() string {
	if p == Visible {
		return "visible"
	}
	return "hidden"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Visibility debounces open/closed hand gestures into a target scale and
// animates the actual scale toward it.
type Visibility struct {
	cfg         Config
	target      float64
	scale       float64
	lastGesture float64
}

// NewVisibility creates a hidden Visibility at scale 0. The debounce window
// starts at session time 0.
func NewVisibility(cfg Config) *Visibility {
	return &Visibility{cfg: cfg}
}

// Observe feeds one classified hand at session time now. It returns true
// when the target flipped.
func (v *Visibility) Observe(fingers int, now float64) bool {
	if now-v.lastGesture <= v.cfg.Debounce {
		return false
	}

	var target float64
	switch {
	case fingers >= v.cfg.ShowFingers:
		target = 1
	case fingers <= v.cfg.HideFingers:
		target = 0
	default:
		return false
	}

	v.lastGesture = now
	changed := target != v.target
	v.target = target
	return changed
}

// Animate advances the scale toward the target by the fraction dt*ScaleRate
// of the remaining gap. The fraction is capped at 1 so a long frame lands on
// the target instead of overshooting it.
func (v *Visibility) Animate(dt float64) {
	if dt <= 0 {
		return
	}
	step := math.Min(1, dt*v.cfg.ScaleRate)
	v.scale += (v.target - v.scale) * step
	v.scale = math.Max(0, math.Min(1, v.scale))
}

// Scale returns the current scale in [0,1].
func (v *Visibility) Scale() float64 { return v.scale }

// Target returns the scale being animated toward, 0 or 1.
func (v *Visibility) Target() float64 { return v.target }

// Phase returns Visible when the target is shown.
func (v *Visibility) Phase() Phase {
	if v.target > 0 {
		return Visible
	}
	return Hidden
}

// Interactable reports whether the hologram is large enough to be grabbed.
func (v *Visibility) Interactable() bool {
	return v.scale > v.cfg.VisibilityFloor
}
