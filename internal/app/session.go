// Package app runs a hologram tracking session: a capture loop that feeds
// hand landmarks into a mailbox and a frame loop that turns the latest
// landmarks into poses for the renderer.
package app

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/hologram/internal/capture"
	"github.com/ayusman/hologram/internal/clock"
	"github.com/ayusman/hologram/internal/detector"
	"github.com/ayusman/hologram/internal/gesture"
	"github.com/ayusman/hologram/internal/plugin"
	"github.com/ayusman/hologram/internal/store"
)

// SettingTrackingEnabled is the settings key holding the tracking toggle.
const SettingTrackingEnabled = "tracking_enabled"

// Config holds the session settings.
type Config struct {
	Filter    gesture.Config
	Capture   capture.Config
	FrameRate int
	Source    store.Source
}

// Options carries the session's collaborators. Every field is optional:
// without a Camera or Detector there is no capture loop and landmarks must
// be published to the Mailbox directly.
type Options struct {
	Camera   capture.Camera
	Detector detector.Detector
	Store    *store.Store
	Hooks    *plugin.Dispatcher
	Recorder *detector.Recorder
	Metrics  *Metrics
}

// Session owns one tracking run.
type Session struct {
	cfg      Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	store    *store.Store
	hooks    *plugin.Dispatcher
	recorder *detector.Recorder
	metrics  *Metrics
	preview  *capture.Preview
	mailbox  *detector.Mailbox
	enabled  atomic.Bool

	mu          sync.Mutex
	filter      *gesture.Filter
	clock       *clock.Session
	timer       *clock.FrameTimer
	sinks       []RenderSink
	watchers    []func(enabled bool)
	sessionID   string
	frames      int64
	last        gesture.Frame
	hasLast     bool
	journal     chan *store.Event
	journalDone chan struct{}
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// New creates a stopped, enabled session.
func New(cfg Config, opts Options) *Session {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 60
	}
	if cfg.Source == "" {
		cfg.Source = store.SourceCamera
	}
	threshold := cfg.Capture.MotionThreshold
	if threshold <= 0 {
		threshold = capture.DefaultConfig().MotionThreshold
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	s := &Session{
		cfg:      cfg,
		camera:   opts.Camera,
		motion:   capture.NewMotionDetector(threshold),
		detector: opts.Detector,
		store:    opts.Store,
		hooks:    opts.Hooks,
		recorder: opts.Recorder,
		metrics:  metrics,
		preview:  capture.NewPreview(),
		mailbox:  detector.NewMailbox(),
	}
	s.enabled.Store(true)
	s.reset()
	return s
}

// reset discards all per-run state. Callers hold s.mu or own s exclusively.
func (s *Session) reset() {
	s.filter = gesture.NewFilter(s.cfg.Filter)
	s.clock = clock.NewSession()
	s.timer = clock.NewFrameTimer(s.clock)
	s.mailbox.Clear()
	s.frames = 0
	s.last = gesture.Frame{}
	s.hasLast = false
	if !s.enabled.Load() {
		s.clock.Pause()
	}
}

// AddSink registers a renderer for every subsequent frame.
func (s *Session) AddSink(sink RenderSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// OpenJournal starts a journal session. Start calls it; offline runs that
// drive Step directly call it themselves.
func (s *Session) OpenJournal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openJournalLocked()
}

func (s *Session) openJournalLocked() error {
	if s.sessionID != "" {
		return nil
	}
	if s.store == nil {
		s.sessionID = uuid.NewString()
		return nil
	}

	sess := &store.Session{Source: s.cfg.Source}
	if err := s.store.Sessions().Create(sess); err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	s.sessionID = sess.ID
	s.journal = make(chan *store.Event, 128)
	s.journalDone = make(chan struct{})
	go s.writeJournal(s.journal, s.journalDone)
	return nil
}

func (s *Session) writeJournal(events <-chan *store.Event, done chan<- struct{}) {
	defer close(done)
	for e := range events {
		if err := s.store.Events().Append(e); err != nil {
			log.Printf("Error journaling %s event: %v", e.Kind, err)
		}
	}
}

func (s *Session) closeJournal() {
	s.mu.Lock()
	id, frames := s.sessionID, s.frames
	events, done := s.journal, s.journalDone
	s.sessionID, s.journal, s.journalDone = "", nil, nil
	s.mu.Unlock()

	if events == nil {
		return
	}
	close(events)
	<-done

	if err := s.store.Sessions().End(id, frames); err != nil {
		log.Printf("Error ending session %s: %v", id, err)
	}
}

// Start opens the camera and runs the capture and frame loops until ctx
// is cancelled or Stop is called. A failed start leaves no journal open.
func (s *Session) Start(ctx context.Context) error {
	if err := s.start(ctx); err != nil {
		s.closeJournal()
		return err
	}
	return nil
}

func (s *Session) start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}
	if err := s.openJournalLocked(); err != nil {
		return err
	}

	capturing := s.camera != nil && s.detector != nil
	if capturing {
		if err := s.camera.Open(); err != nil {
			return fmt.Errorf("start capture: %w", err)
		}
		s.camera.SetFPS(s.cfg.Capture.IdleFPS)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if capturing {
		s.wg.Add(1)
		go s.captureLoop(ctx)
	}
	s.wg.Add(1)
	go s.frameLoop(ctx)

	log.Printf("Session %s started (%d Hz, capture %v)", s.sessionID, s.cfg.FrameRate, capturing)
	return nil
}

// Stop halts both loops, closes the journal and discards the run's state.
// It is safe to call on a session that was never started.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	id := s.sessionID
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}

	if s.camera != nil {
		if err := s.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}
	s.motion.Reset()
	if s.detector != nil {
		if err := s.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	s.closeJournal()

	s.mu.Lock()
	s.reset()
	s.mu.Unlock()

	if cancel != nil {
		log.Printf("Session %s stopped", id)
	}
}

// Running reports whether the loops are active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// SetEnabled pauses or resumes tracking. While paused the session clock
// stands still and no frames are produced.
func (s *Session) SetEnabled(enabled bool) {
	if s.enabled.Swap(enabled) == enabled {
		return
	}

	s.mu.Lock()
	if enabled {
		s.clock.Resume()
	} else {
		s.clock.Pause()
	}
	s.mailbox.Clear()
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Settings().Set(SettingTrackingEnabled, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Error saving tracking setting: %v", err)
		}
	}
	log.Printf("Tracking enabled: %v", enabled)

	s.mu.Lock()
	watchers := append([]func(bool){}, s.watchers...)
	s.mu.Unlock()
	for _, fn := range watchers {
		fn(enabled)
	}
}

// OnEnabledChange registers fn to run after every change of the tracking
// toggle, whoever made it.
func (s *Session) OnEnabledChange(fn func(enabled bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Enabled reports whether tracking is on.
func (s *Session) Enabled() bool {
	return s.enabled.Load()
}

// Step runs one frame at session time now, dt seconds after the previous
// one, using the latest published landmarks. It must not run concurrently
// with Stop.
func (s *Session) Step(now, dt float64) gesture.Frame {
	var hands []detector.HandLandmarks
	if r := s.mailbox.Latest(); r != nil {
		hands = r.Hands
	}

	s.mu.Lock()
	frame := s.filter.Update(gesture.Input{Hands: hands, Now: now, Delta: dt})
	s.last = frame
	s.hasLast = true
	s.frames++
	sinks := s.sinks
	id := s.sessionID
	journal := s.journal
	s.mu.Unlock()

	s.metrics.RenderFrames.Mark(1)
	for _, ev := range frame.Events {
		s.emit(id, journal, frame, ev)
	}
	for _, sink := range sinks {
		sink.Render(frame)
	}
	return frame
}

func (s *Session) emit(id string, journal chan<- *store.Event, frame gesture.Frame, ev gesture.Event) {
	s.metrics.Event(ev.Kind)
	log.Printf("Hologram %s at t=%.2fs (%.2f, %.2f)", ev.Kind, ev.At, ev.Position.X, ev.Position.Y)

	if journal != nil {
		select {
		case journal <- &store.Event{
			SessionID: id,
			Kind:      string(ev.Kind),
			At:        ev.At,
			X:         ev.Position.X,
			Y:         ev.Position.Y,
			Z:         ev.Position.Z,
			Scale:     frame.Scale,
			State:     frame.State.String(),
		}:
		default:
			log.Printf("Journal full, dropping %s event", ev.Kind)
		}
	}

	if s.hooks != nil {
		req := &plugin.Request{
			Event:    string(ev.Kind),
			Session:  id,
			Position: [3]float64{ev.Position.X, ev.Position.Y, ev.Position.Z},
			Scale:    frame.Scale,
			State:    frame.State.String(),
			At:       ev.At,
		}
		if !s.hooks.Dispatch(req) {
			s.metrics.HooksDropped.Inc(1)
		}
	}
}

// Publish hands a detection result to the frame loop, stamped with the
// current session time.
func (s *Session) Publish(hands []detector.HandLandmarks) *detector.Result {
	s.mu.Lock()
	at := s.clock.Elapsed()
	s.mu.Unlock()

	r := s.mailbox.Publish(hands, at)
	s.metrics.HandsSeen.Inc(int64(len(hands)))
	if s.recorder != nil {
		if err := s.recorder.Record(at.Seconds(), hands); err != nil {
			log.Printf("Error recording landmarks: %v", err)
		}
	}
	return r
}

func (s *Session) captureLoop(ctx context.Context) {
	defer s.wg.Done()

	pacer := capture.NewPacer(s.cfg.Capture)
	active := false

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		timer.Reset(s.captureOnce(pacer, &active))
	}
}

// captureOnce reads, gates and detects one camera frame and returns the
// wait before the next one.
func (s *Session) captureOnce(pacer *capture.Pacer, active *bool) time.Duration {
	idle := time.Second / time.Duration(max(s.cfg.Capture.IdleFPS, 1))
	if !s.Enabled() {
		return idle
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return idle
	}
	defer frame.Close()
	s.metrics.CaptureFrames.Mark(1)

	motion := s.motion.Detect(frame)
	if err := s.preview.Publish(frame); err != nil {
		log.Printf("Error encoding preview: %v", err)
	}

	start := time.Now()
	hands, err := s.detector.Detect(frame)
	s.metrics.Detect.UpdateSince(start)
	if err != nil {
		s.metrics.DetectErrors.Inc(1)
		log.Printf("Error detecting hands: %v", err)
		hands = nil
	}
	s.Publish(hands)

	now := time.Now()
	interval := pacer.Observe(motion.Detected, now)
	if nowActive := pacer.Active(now); nowActive != *active {
		*active = nowActive
		if nowActive {
			s.camera.SetFPS(s.cfg.Capture.ActiveFPS)
			log.Println("Switched to active mode")
		} else {
			s.camera.SetFPS(s.cfg.Capture.IdleFPS)
			log.Println("Switched to idle mode")
		}
	}
	return interval
}

func (s *Session) frameLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Enabled() {
				continue
			}
			now, dt := s.timer.Next()
			s.Step(now, dt)
		}
	}
}

// Latest returns the most recent frame, if any has been produced.
func (s *Session) Latest() (gesture.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// SessionID returns the journal id of the current run, or "" when none is open.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Frames returns how many frames the current run produced.
func (s *Session) Frames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// FilterConfig returns the active filter policy.
func (s *Session) FilterConfig() gesture.Config {
	return s.cfg.Filter
}

// Mailbox returns the landmark handoff between capture and frame loops.
func (s *Session) Mailbox() *detector.Mailbox {
	return s.mailbox
}

// Preview returns the camera preview used by the MJPEG stream.
func (s *Session) Preview() *capture.Preview {
	return s.preview
}

// Metrics returns the session's runtime counters.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}
