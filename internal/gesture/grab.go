package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grab is the drag state machine. It owns the hologram's world position.
type Grab struct {
	cfg      Config
	position r3.Vec
	dragging bool
	hovering bool
}

// NewGrab creates an idle Grab with the hologram at the origin.
func NewGrab(cfg Config) *Grab {
	return &Grab{cfg: cfg}
}

// Transition reports how a Step changed the drag state.
type Transition int

const (
	NoTransition Transition = iota
	Grabbed
	Released
)

// Step advances the state machine for one frame with a tracked hand.
// raw is the projected pinch point, predicted its extrapolation and speed
// the smoothed hand speed.
func (g *Grab) Step(pinching bool, raw, predicted r3.Vec, speed float64) Transition {
	if g.dragging {
		if !pinching {
			g.dragging = false
			g.hovering = g.near(raw)
			return Released
		}
		g.position = lerp(g.position, predicted, g.FollowFactor(speed))
		g.hovering = false
		return NoTransition
	}

	near := g.near(raw)
	if pinching && near {
		g.dragging = true
		g.hovering = false
		return Grabbed
	}
	g.hovering = near
	return NoTransition
}

// Release ends any drag and clears hover, used when the hand is lost or the
// hologram stops being interactable.
func (g *Grab) Release() Transition {
	g.hovering = false
	if g.dragging {
		g.dragging = false
		return Released
	}
	return NoTransition
}

// FollowFactor is the fraction of the gap to the predicted position closed
// per frame while dragging: LerpBase plus speed/SpeedDivisor, capped at
// LerpMax. Faster hands get followed more tightly.
func (g *Grab) FollowFactor(speed float64) float64 {
	return math.Min(g.cfg.LerpMax, g.cfg.LerpBase+speed/g.cfg.SpeedDivisor)
}

func (g *Grab) near(raw r3.Vec) bool {
	return r3.Norm(r3.Sub(raw, g.position)) < g.cfg.GrabRadius
}

// Position returns the hologram's world position.
func (g *Grab) Position() r3.Vec { return g.position }

// Dragging reports whether the hologram is held.
func (g *Grab) Dragging() bool { return g.dragging }

// Hovering reports whether an open hand is within reach of the hologram.
func (g *Grab) Hovering() bool { return g.hovering }
