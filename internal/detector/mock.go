package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a right hand with all five digits extended.
func OpenPalmLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}

	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	h.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	h.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}

	return h
}

// FistLandmarks returns a right hand with every digit curled toward the palm.
func FistLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.93}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.77, Z: -0.01}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: -0.02}
	h.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.70, Z: -0.03}
	h.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.70, Z: -0.03}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66, Z: -0.02}
	h.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.62, Z: -0.05}
	h.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.67, Z: -0.04}
	h.Points[IndexTip] = Point3D{X: 0.56, Y: 0.70, Z: -0.02}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.65, Z: -0.02}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.61, Z: -0.05}
	h.Points[MiddleDIP] = Point3D{X: 0.51, Y: 0.66, Z: -0.04}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.70, Z: -0.02}

	h.Points[RingMCP] = Point3D{X: 0.46, Y: 0.66, Z: -0.02}
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.62, Z: -0.05}
	h.Points[RingDIP] = Point3D{X: 0.46, Y: 0.67, Z: -0.04}
	h.Points[RingTip] = Point3D{X: 0.46, Y: 0.70, Z: -0.02}

	h.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.69, Z: -0.02}
	h.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.65, Z: -0.05}
	h.Points[PinkyDIP] = Point3D{X: 0.41, Y: 0.69, Z: -0.04}
	h.Points[PinkyTip] = Point3D{X: 0.42, Y: 0.72, Z: -0.02}

	return h
}

// PointLandmarks returns a fist with only the index finger extended.
func PointLandmarks() HandLandmarks {
	h := FistLandmarks()
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.58, Z: -0.01}
	h.Points[IndexDIP] = Point3D{X: 0.56, Y: 0.48}
	h.Points[IndexTip] = Point3D{X: 0.56, Y: 0.40}
	return h
}

// PinchLandmarks returns a right hand whose thumb and index tips touch with
// their midpoint at (x, y). The other three fingers stay extended, so the
// hand still reads as open.
func PinchLandmarks(x, y float64) HandLandmarks {
	h := pinchTemplate()
	h.Points[ThumbTip] = Point3D{X: 0.51, Y: 0.51}
	h.Points[IndexTip] = Point3D{X: 0.49, Y: 0.49}
	return translate(h, x-0.5, y-0.5)
}

// SpreadLandmarks is PinchLandmarks with the thumb and index tips pulled
// apart; the tip midpoint is still at (x, y).
func SpreadLandmarks(x, y float64) HandLandmarks {
	h := pinchTemplate()
	h.Points[ThumbTip] = Point3D{X: 0.54, Y: 0.50}
	h.Points[IndexTip] = Point3D{X: 0.46, Y: 0.50}
	return translate(h, x-0.5, y-0.5)
}

// pinchTemplate lays out a hand reaching up with the thumb/index tips near
// (0.5, 0.5). Tip positions are filled in by the caller.
func pinchTemplate() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.97}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.68}
	h.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.58}

	h.Points[IndexMCP] = Point3D{X: 0.53, Y: 0.66}
	h.Points[IndexPIP] = Point3D{X: 0.54, Y: 0.58}
	h.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.52}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	h.Points[MiddlePIP] = Point3D{X: 0.49, Y: 0.54}
	h.Points[MiddleDIP] = Point3D{X: 0.485, Y: 0.44}
	h.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.36}

	h.Points[RingMCP] = Point3D{X: 0.46, Y: 0.67}
	h.Points[RingPIP] = Point3D{X: 0.44, Y: 0.56}
	h.Points[RingDIP] = Point3D{X: 0.43, Y: 0.47}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.40}

	h.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.70}
	h.Points[PinkyPIP] = Point3D{X: 0.39, Y: 0.62}
	h.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.55}
	h.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.49}

	return h
}

func translate(h HandLandmarks, dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
