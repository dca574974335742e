package capture

import (
	"time"
)

// Pacer chooses the capture interval. It stays at the active rate while
// motion was seen within the idle window and falls back to the idle rate
// afterwards. Detection keeps running at the idle rate so a hand held
// perfectly still is still tracked.
type Pacer struct {
	active     time.Duration
	idle       time.Duration
	idleAfter  time.Duration
	lastMotion time.Time
	seen       bool
}

// NewPacer returns a Pacer for cfg's frame rates.
func NewPacer(cfg Config) *Pacer {
	return &Pacer{
		active:    fpsInterval(cfg.ActiveFPS),
		idle:      fpsInterval(cfg.IdleFPS),
		idleAfter: time.Duration(cfg.IdleAfter * float64(time.Second)),
	}
}

// Observe records whether the frame captured at now showed motion and
// returns the interval to wait before the next capture.
func (p *Pacer) Observe(motion bool, now time.Time) time.Duration {
	if motion {
		p.lastMotion = now
		p.seen = true
	}
	if p.Active(now) {
		return p.active
	}
	return p.idle
}

// Active reports whether the loop should run at the active rate at now.
func (p *Pacer) Active(now time.Time) bool {
	return p.seen && now.Sub(p.lastMotion) <= p.idleAfter
}

func fpsInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}
