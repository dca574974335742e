package app

import (
	"github.com/ayusman/hologram/internal/gesture"
)

// RenderSink receives every frame the session produces. Render is called
// on the frame loop goroutine and must not block.
type RenderSink interface {
	Render(frame gesture.Frame)
}

// RenderFunc adapts a function to RenderSink.
type RenderFunc func(frame gesture.Frame)

// Render calls f(frame).
func (f RenderFunc) Render(frame gesture.Frame) { f(frame) }
