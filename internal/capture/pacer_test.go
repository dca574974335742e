package capture

import (
	"testing"
	"time"
)

func TestPacer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ActiveFPS = 20
	cfg.IdleFPS = 4
	cfg.IdleAfter = 1

	p := NewPacer(cfg)
	start := time.Unix(1000, 0)

	active := 50 * time.Millisecond
	idle := 250 * time.Millisecond

	steps := []struct {
		name   string
		offset time.Duration
		motion bool
		want   time.Duration
	}{
		{"still scene starts idle", 0, false, idle},
		{"motion switches to active", 100 * time.Millisecond, true, active},
		{"stays active inside the window", 900 * time.Millisecond, false, active},
		{"window bound is inclusive", 1100 * time.Millisecond, false, active},
		{"drops to idle after the window", 1200 * time.Millisecond, false, idle},
		{"motion again", 3 * time.Second, true, active},
	}

	for _, st := range steps {
		if got := p.Observe(st.motion, start.Add(st.offset)); got != st.want {
			t.Errorf("%s: interval = %v, want %v", st.name, got, st.want)
		}
	}
}

func TestPacer_ZeroRateClamped(t *testing.T) {
	p := NewPacer(Config{})
	if got := p.Observe(true, time.Now()); got != time.Second {
		t.Errorf("interval = %v, want 1s for a zero rate", got)
	}
}
