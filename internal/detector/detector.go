package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrNoScript is returned when the MediaPipe service script cannot be located.
var ErrNoScript = errors.New("mediapipe_service.py not found")

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int `yaml:"max_hands" json:"max_hands"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `yaml:"min_tracking_confidence" json:"min_tracking_confidence"`

	// Script overrides the location of mediapipe_service.py.
	Script string `yaml:"script" json:"script"`

	// Python overrides the interpreter used to run the script.
	Python string `yaml:"python" json:"python"`

	// IdleShutdownSec stops the subprocess after this many seconds without
	// a frame. Zero disables the idle shutdown.
	IdleShutdownSec int `yaml:"idle_shutdown_sec" json:"idle_shutdown_sec"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleShutdownSec: 30,
	}
}
