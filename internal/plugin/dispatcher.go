package plugin

import (
	"context"
	"log"
	"sync"
)

// Dispatcher delivers requests to subscribed hooks from a background
// worker so the caller never waits on a hook process. When the queue is
// full new requests are dropped.
type Dispatcher struct {
	mgr   *Manager
	exec  *Executor
	queue chan *Request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	observe ResultFunc

	mu      sync.Mutex
	closed  bool
	dropped int
}

// ResultFunc observes a finished hook invocation.
type ResultFunc func(p *Plugin, req *Request, resp *Response, err error)

// NewDispatcher starts a worker draining up to queueSize pending requests.
// observe may be nil.
func NewDispatcher(mgr *Manager, exec *Executor, queueSize int, observe ResultFunc) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		mgr:     mgr,
		exec:    exec,
		queue:   make(chan *Request, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		observe: observe,
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Dispatch queues req. It reports false when the request was dropped.
func (d *Dispatcher) Dispatch(req *Request) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	select {
	case d.queue <- req:
		return true
	default:
		d.dropped++
		return false
	}
}

// Dropped returns how many requests were discarded on a full queue.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Close drains the queue and waits for the worker. Hooks still running
// when ctx ends are killed.
func (d *Dispatcher) Close(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		<-done
	}
	d.cancel()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for req := range d.queue {
		for _, p := range d.mgr.ForEvent(req.Event) {
			resp, err := d.exec.Execute(d.ctx, p, req)
			switch {
			case err != nil:
				log.Printf("Hook %s on %s: %v", p.Manifest.Name, req.Event, err)
			case !resp.Success:
				log.Printf("Hook %s on %s reported failure: %s", p.Manifest.Name, req.Event, resp.Error)
			}
			if d.observe != nil {
				d.observe(p, req, resp, err)
			}
		}
	}
}
