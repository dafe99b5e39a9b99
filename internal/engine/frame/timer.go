package frame

import "time"

// Timer counts down by frame deltas.
type Timer struct {
	Left time.Duration
}

// NewTimer returns a timer that finishes after d.
func NewTimer(d time.Duration) Timer {
	return Timer{Left: d}
}

// Tick subtracts dt. Left may go negative.
func (t *Timer) Tick(dt time.Duration) {
	t.Left -= dt
}

// Finished reports whether no time is left.
func (t *Timer) Finished() bool {
	return t.Left <= 0
}

// Reset restarts the timer at d.
func (t *Timer) Reset(d time.Duration) {
	t.Left = d
}
