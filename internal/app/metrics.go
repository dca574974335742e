package app

import (
	gometrics "github.com/rcrowley/go-metrics"

	"github.com/ayusman/hologram/internal/gesture"
)

// Metrics are the runtime counters exposed at /api/stats.
type Metrics struct {
	Registry gometrics.Registry

	CaptureFrames gometrics.Meter
	RenderFrames  gometrics.Meter
	Detect        gometrics.Timer
	DetectErrors  gometrics.Counter
	HandsSeen     gometrics.Counter
	HooksDropped  gometrics.Counter
	events        map[gesture.EventKind]gometrics.Counter
}

// NewMetrics registers the session metrics in r. A nil registry gets a
// private one.
func NewMetrics(r gometrics.Registry) *Metrics {
	if r == nil {
		r = gometrics.NewRegistry()
	}

	m := &Metrics{
		Registry:      r,
		CaptureFrames: gometrics.GetOrRegisterMeter("capture.frames", r),
		RenderFrames:  gometrics.GetOrRegisterMeter("render.frames", r),
		Detect:        gometrics.GetOrRegisterTimer("detect.latency", r),
		DetectErrors:  gometrics.GetOrRegisterCounter("detect.errors", r),
		HandsSeen:     gometrics.GetOrRegisterCounter("detect.hands", r),
		HooksDropped:  gometrics.GetOrRegisterCounter("hooks.dropped", r),
		events:        make(map[gesture.EventKind]gometrics.Counter),
	}
	for _, k := range []gesture.EventKind{gesture.EventShow, gesture.EventHide, gesture.EventGrab, gesture.EventRelease} {
		m.events[k] = gometrics.GetOrRegisterCounter("events."+string(k), r)
	}
	return m
}

// Event counts one interaction event.
func (m *Metrics) Event(kind gesture.EventKind) {
	if c, ok := m.events[kind]; ok {
		c.Inc(1)
	}
}

// EventCount returns how many events of kind were counted.
func (m *Metrics) EventCount(kind gesture.EventKind) int64 {
	if c, ok := m.events[kind]; ok {
		return c.Count()
	}
	return 0
}
