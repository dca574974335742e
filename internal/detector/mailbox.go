package detector

import (
	"sync/atomic"
	"time"
)

// Result is one published detection: the hands seen in a single processed
// frame. A Result is never modified after it has been published.
type Result struct {
	Hands []HandLandmarks `json:"hands"`

	// Seq increases by one with every publish.
	Seq uint64 `json:"seq"`

	// CapturedAt is the session time at which the frame was captured.
	CapturedAt time.Duration `json:"captured_at"`
}

// Primary returns the first detected hand, or nil when none was detected.
// Only the first hand drives interaction.
func (r *Result) Primary() *HandLandmarks {
	if r == nil || len(r.Hands) == 0 {
		return nil
	}
	return &r.Hands[0]
}

// Mailbox hands detection results from the capture loop to the frame loop.
// There is one writer and any number of readers; readers always observe a
// complete Result and never block on the writer.
type Mailbox struct {
	latest atomic.Pointer[Result]
	seq    atomic.Uint64
}

// NewMailbox creates an empty Mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish copies hands into a fresh Result and makes it the latest one.
func (m *Mailbox) Publish(hands []HandLandmarks, at time.Duration) *Result {
	snapshot := &Result{
		Hands:      append([]HandLandmarks(nil), hands...),
		Seq:        m.seq.Add(1),
		CapturedAt: at,
	}
	m.latest.Store(snapshot)
	return snapshot
}

// Latest returns the most recently published Result, or nil if nothing has
// been published yet. Consecutive calls may return the same Result.
func (m *Mailbox) Latest() *Result {
	return m.latest.Load()
}

// Clear drops the published Result so readers see "no hands".
func (m *Mailbox) Clear() {
	m.latest.Store(nil)
}
