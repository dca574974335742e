// Package detector provides the landmark source for the hologram filter:
// hand detection backends and the snapshot handoff between the capture
// loop and the frame loop.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumDigits is the number of fingers on a hand, thumb included.
const NumDigits = 5

// Fingertips lists the tip landmark of each digit, thumb first.
var Fingertips = [NumDigits]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// ProximalJoints lists the joint each fingertip is compared against when
// deciding whether the digit is extended. Order matches Fingertips.
var ProximalJoints = [NumDigits]int{ThumbMCP, IndexPIP, MiddlePIP, RingPIP, PinkyPIP}

// Point3D is a landmark position. X and Y are normalized to [0,1] image
// space; Z is the relative depth reported by the model.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PlanarDistance returns the Euclidean distance between a and b in the
// image plane, ignoring depth.
func PlanarDistance(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point3D) Point3D {
	return Point3D{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
		Z: (a.Z + b.Z) / 2,
	}
}

// Span returns the planar distance between two landmarks of the hand.
func (h *HandLandmarks) Span(from, to int) float64 {
	return PlanarDistance(h.Points[from], h.Points[to])
}
