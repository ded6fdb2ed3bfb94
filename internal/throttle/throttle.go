// Package throttle implements the per-gesture-instance update rate limiter:
// it preserves the first and last update of a gesture while down-sampling
// the middle to a target FPS.
package throttle

import "time"

// Throttle holds per-gesture-instance state. Reset at each Begin.
type Throttle struct {
	period   time.Duration
	lastPass time.Time
	seenAny  bool
}

// New builds a Throttle targeting fps updates per second. fps <= 0 falls
// back to 60, the default target FPS: driving the external Wayland helper
// faster than its own ~100ms command latency just coalesces updates and
// burns CPU without visible improvement.
func New(fps int) *Throttle {
	if fps <= 0 {
		fps = 60
	}
	return &Throttle{period: time.Second / time.Duration(fps)}
}

// Reset clears per-gesture state; call at Begin.
func (t *Throttle) Reset() {
	t.seenAny = false
	t.lastPass = time.Time{}
}

// Pass reports whether an update should be forwarded: true for the
// gesture's first update, true when isFinal is set (the update
// accompanying End), and otherwise true only if at least one throttle
// period has elapsed since the last pass.
func (t *Throttle) Pass(now time.Time, isFinal bool) bool {
	first := !t.seenAny
	t.seenAny = true

	if first || isFinal {
		t.lastPass = now
		return true
	}
	if now.Sub(t.lastPass) >= t.period {
		t.lastPass = now
		return true
	}
	return false
}
