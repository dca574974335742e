package capture

import (
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Preview holds the most recent camera frame as JPEG for the MJPEG
// stream. Frames are only encoded while at least one viewer is watching.
type Preview struct {
	viewers atomic.Int32

	mu   sync.Mutex
	cond *sync.Cond
	jpeg []byte
	seq  uint64
}

// NewPreview returns an empty Preview.
func NewPreview() *Preview {
	p := &Preview{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Watch registers a viewer. Call the returned func when done.
func (p *Preview) Watch() func() {
	p.viewers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			p.viewers.Add(-1)
			p.mu.Lock()
			p.cond.Broadcast()
			p.mu.Unlock()
		})
	}
}

// Watching reports whether anyone is viewing the stream.
func (p *Preview) Watching() bool {
	return p.viewers.Load() > 0
}

// Publish encodes frame if there are viewers.
func (p *Preview) Publish(frame *gocv.Mat) error {
	if !p.Watching() || frame == nil || frame.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return err
	}
	defer buf.Close()

	p.Set(buf.GetBytes())
	return nil
}

// Set stores an already encoded JPEG.
func (p *Preview) Set(jpeg []byte) {
	data := make([]byte, len(jpeg))
	copy(data, jpeg)

	p.mu.Lock()
	p.jpeg = data
	p.seq++
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Next blocks until a frame newer than after is available or cancel
// reports true, and returns it with its sequence number.
func (p *Preview) Next(after uint64, cancel func() bool) ([]byte, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.seq <= after && !cancel() {
		p.cond.Wait()
	}
	return p.jpeg, p.seq
}

// Wake releases every viewer blocked in Next so it can re-check cancel.
func (p *Preview) Wake() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}
