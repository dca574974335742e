package app

import (
	"context"
	"time"

	"github.com/ayusman/hologram/internal/clock"
	"github.com/ayusman/hologram/internal/detector"
	"github.com/ayusman/hologram/internal/gesture"
)

// Replay runs a landmark recording through s in recorded time: one frame
// per recorded detection, stamped with the recording's clock. Every frame
// is passed to emit; an emit error stops the replay. The session's journal
// is opened first and closed on return.
func Replay(ctx context.Context, s *Session, frames []detector.RecordedFrame, emit func(gesture.Frame) error) error {
	if err := s.OpenJournal(); err != nil {
		return err
	}
	defer s.Stop()

	c := clock.NewManual()
	timer := clock.NewFrameTimer(c)

	for _, rf := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Set(time.Duration(rf.Time * float64(time.Second)))
		s.mailbox.Publish(rf.Hands, c.Elapsed())
		s.metrics.HandsSeen.Inc(int64(len(rf.Hands)))

		now, dt := timer.Next()
		frame := s.Step(now, dt)
		if emit != nil {
			if err := emit(frame); err != nil {
				return err
			}
		}
	}
	return nil
}
