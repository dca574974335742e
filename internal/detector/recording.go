package detector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// RecordedFrame is one line of a landmark recording: the hands detected in
// a frame and the session time (seconds) at which it was captured.
type RecordedFrame struct {
	Time  float64         `json:"t"`
	Hands []HandLandmarks `json:"-"`
}

type recordedLine struct {
	Time  float64    `json:"t"`
	Hands []jsonHand `json:"hands"`
}

// ReadRecording parses a JSON-lines landmark recording. Blank lines are
// skipped; hands with fewer than 21 points are dropped.
func ReadRecording(r io.Reader) ([]RecordedFrame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var frames []RecordedFrame
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec recordedLine
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if n := len(frames); n > 0 && rec.Time < frames[n-1].Time {
			return nil, fmt.Errorf("line %d: time %.3f goes backwards", lineNo, rec.Time)
		}

		frames = append(frames, RecordedFrame{
			Time:  rec.Time,
			Hands: toHands(rec.Hands, 0),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}

	return frames, nil
}

// Recorder writes detection results in the format read by ReadRecording.
type Recorder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// Record appends one frame.
func (r *Recorder) Record(at float64, hands []HandLandmarks) error {
	line := recordedLine{Time: at, Hands: make([]jsonHand, len(hands))}
	for i, h := range hands {
		line.Hands[i] = jsonHand{
			Points:     h.Points[:],
			Handedness: h.Handedness,
			Score:      h.Score,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(line)
}

// ReplayDetector plays back a recording, returning one recorded frame per
// Detect call and ignoring the camera frame it is given.
type ReplayDetector struct {
	mu     sync.Mutex
	frames []RecordedFrame
	index  int
	loop   bool
}

// NewReplayDetector creates a ReplayDetector over frames.
func NewReplayDetector(frames []RecordedFrame, loop bool) *ReplayDetector {
	return &ReplayDetector{frames: frames, loop: loop}
}

// Detect returns the next recorded frame. Once the recording is exhausted
// (and not looping) it reports no hands.
func (d *ReplayDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index >= len(d.frames) {
		if !d.loop || len(d.frames) == 0 {
			return nil, nil
		}
		d.index = 0
	}

	hands := d.frames[d.index].Hands
	d.index++
	return hands, nil
}

// Done reports whether every recorded frame has been returned.
func (d *ReplayDetector) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.loop && d.index >= len(d.frames)
}

// Close is a no-op.
func (d *ReplayDetector) Close() error {
	return nil
}
