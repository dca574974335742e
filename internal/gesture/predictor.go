package gesture

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/hologram/internal/detector"
)

// PinchDistance is the planar distance between the thumb and index tips.
func PinchDistance(hand *detector.HandLandmarks) float64 {
	return hand.Span(detector.ThumbTip, detector.IndexTip)
}

// Project maps a normalized image point to world space: the image centre
// becomes the origin, both axes are flipped (the camera is mirrored and
// image Y grows downward) and each axis is scaled to the visible frustum.
func Project(p detector.Point3D, cfg Config) r3.Vec {
	return r3.Vec{
		X: (0.5 - p.X) * cfg.ProjectionX,
		Y: (0.5 - p.Y) * cfg.ProjectionY,
	}
}

// HandPosition is the world-space position of the pinch point, the
// midpoint between the thumb and index tips.
func HandPosition(hand *detector.HandLandmarks, cfg Config) r3.Vec {
	mid := detector.Midpoint(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	return Project(mid, cfg)
}

// Predictor estimates hand velocity from consecutive positions and
// extrapolates where the hand will be LookAhead seconds from now. Only the
// previous sample and the smoothed velocity are kept.
type Predictor struct {
	cfg      Config
	last     r3.Vec
	lastTime float64
	begun    bool
	velocity r3.Vec
}

// NewPredictor creates a Predictor at rest.
func NewPredictor(cfg Config) *Predictor {
	return &Predictor{cfg: cfg}
}

// Observe records the hand at raw, seen at session time now. The velocity
// estimate only moves when there is a previous sample and the gap since it
// is plausible.
func (p *Predictor) Observe(raw r3.Vec, now float64) {
	dt := now - p.lastTime
	if p.begun && dt > 0 && dt < p.cfg.MaxSampleInterval {
		current := r3.Scale(1/dt, r3.Sub(raw, p.last))
		p.velocity = lerp(p.velocity, current, p.cfg.VelocityBlend)
	}
	p.last = raw
	p.lastTime = now
	p.begun = true
}

// Predict extrapolates raw along the current velocity.
func (p *Predictor) Predict(raw r3.Vec) r3.Vec {
	return r3.Add(raw, r3.Scale(p.cfg.LookAhead, p.velocity))
}

// Velocity returns the smoothed velocity in world units per second.
func (p *Predictor) Velocity() r3.Vec { return p.velocity }

// Speed returns the magnitude of the smoothed velocity.
func (p *Predictor) Speed() float64 { return r3.Norm(p.velocity) }

func lerp(from, to r3.Vec, t float64) r3.Vec {
	return r3.Add(from, r3.Scale(t, r3.Sub(to, from)))
}
