package gesture

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/hologram/internal/detector"
)

// EventKind names an interaction transition.
type EventKind string

const (
	EventShow    EventKind = "show"
	EventHide    EventKind = "hide"
	EventGrab    EventKind = "grab"
	EventRelease EventKind = "release"
)

// Event is a discrete interaction transition that happened during a frame.
type Event struct {
	Kind     EventKind `json:"kind"`
	At       float64   `json:"at"`
	Position r3.Vec    `json:"-"`
}

// MarshalJSON encodes the position as an [x, y, z] array.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire Event
	return json.Marshal(struct {
		wire
		Position [3]float64 `json:"position"`
	}{wire(e), vecArray(e.Position)})
}

// Input is what the filter consumes each frame.
type Input struct {
	// Hands from the latest detection; may be stale, nil or empty.
	Hands []detector.HandLandmarks

	// Now is the session time in seconds.
	Now float64

	// Delta is the time since the previous frame in seconds.
	Delta float64
}

// Pose is the hologram's placement.
type Pose struct {
	Position r3.Vec
	Scale    float64
}

// Frame is the per-frame output handed to the renderer.
type Frame struct {
	Seq        uint64      `json:"seq"`
	Time       float64     `json:"time"`
	Position   r3.Vec      `json:"-"`
	Scale      float64     `json:"scale"`
	Target     float64     `json:"target"`
	Phase      Phase       `json:"phase"`
	State      VisualState `json:"state"`
	Tracking   bool        `json:"tracking"`
	Pinching   bool        `json:"pinching"`
	Speed      float64     `json:"speed"`
	Appearance Appearance  `json:"appearance"`
	Events     []Event     `json:"events,omitempty"`
}

// MarshalJSON encodes the position as an [x, y, z] array.
func (f Frame) MarshalJSON() ([]byte, error) {
	type wire Frame
	return json.Marshal(struct {
		wire
		Position [3]float64 `json:"position"`
	}{wire(f), vecArray(f.Position)})
}

func vecArray(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// Filter combines the classifier, visibility, predictor and grab state
// machines. One Filter lives for a whole session and is updated once per
// rendered frame; it is not safe for concurrent use.
type Filter struct {
	cfg        Config
	visibility *Visibility
	predictor  *Predictor
	grab       *Grab
	seq        uint64
}

// NewFilter creates a Filter with the hologram hidden at the origin.
func NewFilter(cfg Config) *Filter {
	return &Filter{
		cfg:        cfg,
		visibility: NewVisibility(cfg),
		predictor:  NewPredictor(cfg),
		grab:       NewGrab(cfg),
	}
}

// Config returns the policy the filter was built with.
func (f *Filter) Config() Config { return f.cfg }

// Update runs one frame. A missing hand is normal: the scale keeps
// animating toward its last target and any drag ends.
func (f *Filter) Update(in Input) Frame {
	f.seq++
	var events []Event

	var hand *detector.HandLandmarks
	if len(in.Hands) > 0 {
		hand = &in.Hands[0]
	}

	if fingers, ok := Classify(hand, f.cfg.ExtensionRatio); ok {
		if f.visibility.Observe(fingers, in.Now) {
			kind := EventHide
			if f.visibility.Phase() == Visible {
				kind = EventShow
			}
			events = append(events, Event{Kind: kind, At: in.Now, Position: f.grab.Position()})
		}
	}

	f.visibility.Animate(in.Delta)

	tracking := hand != nil && f.visibility.Interactable()
	pinching := false

	var transition Transition
	if tracking {
		pinching = PinchDistance(hand) < f.cfg.PinchThreshold
		raw := HandPosition(hand, f.cfg)
		f.predictor.Observe(raw, in.Now)
		predicted := f.predictor.Predict(raw)

		// a hologram on its way out cannot be picked up or held
		canHold := pinching && f.visibility.Phase() == Visible
		transition = f.grab.Step(canHold, raw, predicted, f.predictor.Speed())
	} else {
		transition = f.grab.Release()
	}

	switch transition {
	case Grabbed:
		events = append(events, Event{Kind: EventGrab, At: in.Now, Position: f.grab.Position()})
	case Released:
		events = append(events, Event{Kind: EventRelease, At: in.Now, Position: f.grab.Position()})
	}

	state := StateOf(f.grab.Dragging(), f.grab.Hovering())
	return Frame{
		Seq:        f.seq,
		Time:       in.Now,
		Position:   f.grab.Position(),
		Scale:      f.visibility.Scale(),
		Target:     f.visibility.Target(),
		Phase:      f.visibility.Phase(),
		State:      state,
		Tracking:   tracking,
		Pinching:   pinching,
		Speed:      f.predictor.Speed(),
		Appearance: AppearanceOf(state, tracking),
		Events:     events,
	}
}

// Pose returns the current placement of the hologram.
func (f *Filter) Pose() Pose {
	return Pose{Position: f.grab.Position(), Scale: f.visibility.Scale()}
}

// Dragging reports whether the hologram is currently held.
func (f *Filter) Dragging() bool { return f.grab.Dragging() }

// FollowFactor exposes the drag follow factor for the current hand speed.
func (f *Filter) FollowFactor() float64 {
	return f.grab.FollowFactor(f.predictor.Speed())
}
