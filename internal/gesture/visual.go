package gesture

// VisualState is the interaction state reported to the renderer.
type VisualState int

const (
	Idle VisualState = iota
	Hovering
	Dragging
)

func (s VisualState) String() string {
	switch s {
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// MarshalText encodes the state by name.
func (s VisualState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateOf maps the drag and hover flags to exactly one VisualState.
// Dragging wins over hovering.
func StateOf(dragging, hovering bool) VisualState {
	switch {
	case dragging:
		return Dragging
	case hovering:
		return Hovering
	default:
		return Idle
	}
}

// Look names a renderer styling variant.
type Look string

const (
	LookActive  Look = "active"
	LookHover   Look = "hover"
	LookIdle    Look = "idle"
	LookStandby Look = "standby"
)

// Appearance is how the renderer should draw the hologram for a frame.
// Color is 0xRRGGBB.
type Appearance struct {
	Look      Look    `json:"look"`
	Color     uint32  `json:"color"`
	Emissive  float64 `json:"emissive"`
	SpinBoost float64 `json:"spin_boost"`
}

// AppearanceOf picks the styling for a state. tracking is false when no
// hand is being followed, which draws an idle hologram dimmer.
func AppearanceOf(state VisualState, tracking bool) Appearance {
	switch {
	case state == Dragging:
		return Appearance{Look: LookActive, Color: 0xff0055, Emissive: 2, SpinBoost: 10}
	case state == Hovering:
		return Appearance{Look: LookHover, Color: 0xffaa00, Emissive: 1.5, SpinBoost: 1}
	case tracking:
		return Appearance{Look: LookIdle, Color: 0x00ffff, Emissive: 1, SpinBoost: 1}
	default:
		return Appearance{Look: LookStandby, Color: 0x0088ff, Emissive: 0.5, SpinBoost: 1}
	}
}
