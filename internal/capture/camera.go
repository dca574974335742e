// Package capture reads camera frames with GoCV and paces the detection
// loop between an active and an idle rate based on scene motion.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device delivers no pixels.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Config selects the capture device and the detection rates.
type Config struct {
	Device          int     `yaml:"device" json:"device"`
	Width           int     `yaml:"width" json:"width"`
	Height          int     `yaml:"height" json:"height"`
	ActiveFPS       int     `yaml:"active_fps" json:"active_fps"`
	IdleFPS         int     `yaml:"idle_fps" json:"idle_fps"`
	MotionThreshold float64 `yaml:"motion_threshold" json:"motion_threshold"`
	// IdleAfter is how long, in seconds, the scene must stay still
	// before the loop drops to IdleFPS.
	IdleAfter float64 `yaml:"idle_after" json:"idle_after"`
}

// DefaultConfig returns the capture settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Device:          0,
		Width:           640,
		Height:          480,
		ActiveFPS:       30,
		IdleFPS:         5,
		MotionThreshold: 1.0,
		IdleAfter:       2,
	}
}

// Validate reports settings the capture loop cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("capture: resolution %dx%d must be positive", c.Width, c.Height)
	case c.ActiveFPS <= 0 || c.IdleFPS <= 0:
		return fmt.Errorf("capture: frame rates must be positive (active %d, idle %d)", c.ActiveFPS, c.IdleFPS)
	case c.IdleFPS > c.ActiveFPS:
		return fmt.Errorf("capture: idle_fps %d exceeds active_fps %d", c.IdleFPS, c.ActiveFPS)
	case c.MotionThreshold <= 0 || c.MotionThreshold >= 100:
		return fmt.Errorf("capture: motion_threshold %v must be a percentage in (0, 100)", c.MotionThreshold)
	case c.IdleAfter < 0:
		return fmt.Errorf("capture: idle_after %v must not be negative", c.IdleAfter)
	}
	return nil
}

// Camera is a source of BGR frames.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

type deviceCamera struct {
	cfg     Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
	fps     int
}

// NewCamera returns a Camera for the configured device. The device is
// not touched until Open.
func NewCamera(cfg Config) Camera {
	fps := cfg.ActiveFPS
	if fps <= 0 {
		fps = DefaultConfig().ActiveFPS
	}
	return &deviceCamera{cfg: cfg, fps: fps}
}

func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(c.cfg.Device)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.cfg.Device, err)
	}

	if c.cfg.Width > 0 && c.cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	}
	vc.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = vc
	return nil
}

func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	return err
}

// ReadFrame grabs one frame. The caller owns the returned Mat.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("read camera %d: device returned no frame", c.cfg.Device)
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}

	return &mat, nil
}

// SetFPS ignores non-positive rates.
func (c *deviceCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *deviceCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}
