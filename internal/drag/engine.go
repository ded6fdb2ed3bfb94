// Package drag implements the state machine that turns a three-finger
// (or however many fingers a direct-drag binding names) swipe into a
// synthetic mouse-button drag: press on Begin, accelerated relative moves on
// Update, and a delayed release on End so a brief finger lift doesn't end
// the drag.
package drag

import (
	"math"
	"sync"
	"time"

	"github.com/bnema/gesturesd/internal/logger"
	"github.com/bnema/gesturesd/internal/pointer"
	"github.com/bnema/gesturesd/internal/throttle"
)

// State is one of the four drag engine states.
type State int

const (
	Idle State = iota
	Pressing
	Dragging
	Lifting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressing:
		return "pressing"
	case Dragging:
		return "dragging"
	case Lifting:
		return "lifting"
	default:
		return "unknown"
	}
}

// maxMoveComponent bounds a single accelerated move so a coalesced delta
// from the input library can't produce a pathological pointer jump.
const maxMoveComponent = 127

// Engine drives a single direct-drag binding's lifecycle. One Engine is
// shared across gesture instances for the process lifetime; it is not
// reentrant across concurrent gestures because only one direct-drag
// binding may be active at a time (the dispatcher enforces this).
type Engine struct {
	backend  pointer.Backend
	throttle *throttle.Throttle

	mu      sync.Mutex
	state   State
	fingers int
	accel   int
	delay   time.Duration
	timer   *time.Timer
}

// New builds a drag engine forwarding synthesized pointer events to backend,
// throttling Update calls to targetFPS.
func New(backend pointer.Backend, targetFPS int) *Engine {
	return &Engine{
		backend:  backend,
		throttle: throttle.New(targetFPS),
	}
}

// State returns the engine's current state. Intended for tests and status
// reporting; callers must not rely on it staying valid past the call since
// a concurrent event may advance it immediately after.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Begin handles a Swipe.Begin event matching a direct-drag binding.
// acceleration is the binding's scale factor (10 = 1x) and delayMs its
// mouse-up delay. If the engine is Lifting for the same finger count, the
// pending release is cancelled and the drag resumes without a new press.
func (e *Engine) Begin(fingers, acceleration, delayMs int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Lifting && fingers == e.fingers {
		e.stopTimerLocked()
		e.state = Dragging
		return
	}

	if e.state == Lifting {
		// A different finger count arrived while a release was pending for
		// the previous gesture: the pending release fires immediately
		// instead of being silently cancelled, then the new gesture is
		// processed fresh.
		e.stopTimerLocked()
		e.state = Idle
		if err := e.backend.Release(pointer.ButtonLeft); err != nil {
			logger.Warnf("drag engine: release failed: %v", err)
		}
	}

	e.stopTimerLocked()
	e.fingers = fingers
	e.accel = acceleration
	e.delay = time.Duration(delayMs) * time.Millisecond
	e.throttle.Reset()
	e.state = Pressing

	if err := e.backend.Press(pointer.ButtonLeft); err != nil {
		logger.Warnf("drag engine: press failed: %v", err)
	}
}

// Update handles a Swipe.Update event. dx/dy are the raw per-update deltas
// (not accumulated); isFinal marks the update accompanying an End, which is
// always forwarded regardless of throttling.
func (e *Engine) Update(dx, dy float64, isFinal bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Pressing && e.state != Dragging {
		return
	}
	if !e.throttle.Pass(time.Now(), isFinal) {
		return
	}
	e.state = Dragging

	mx := accelerate(dx, e.accel)
	my := accelerate(dy, e.accel)
	if err := e.backend.MoveRelative(mx, my); err != nil {
		logger.Warnf("drag engine: move failed: %v", err)
	}
}

// End handles a Swipe.End event by arming the one-shot lift timer; the
// actual release is deferred until the timer fires, unless a new Begin for
// the same finger count arrives first.
func (e *Engine) End() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Pressing && e.state != Dragging {
		return
	}
	e.state = Lifting
	e.armTimerLocked()
}

// Cancel handles a Cancel event (any phase, any state): it cancels any
// pending lift timer and releases immediately.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
	if e.state == Idle {
		return
	}
	e.state = Idle
	if err := e.backend.Release(pointer.ButtonLeft); err != nil {
		logger.Warnf("drag engine: release failed: %v", err)
	}
}

// Close forces a release if the engine is Pressing, Dragging, or Lifting,
// and cancels any pending lift timer. Callers must invoke this during
// shutdown so a drag in progress doesn't leave the button logically
// pressed at the backend.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
	if e.state == Idle {
		return nil
	}
	e.state = Idle
	return e.backend.Release(pointer.ButtonLeft)
}

func (e *Engine) armTimerLocked() {
	e.timer = time.AfterFunc(e.delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.state != Lifting {
			return
		}
		e.state = Idle
		if err := e.backend.Release(pointer.ButtonLeft); err != nil {
			logger.Warnf("drag engine: release failed: %v", err)
		}
	})
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// accelerate scales a reported delta by acceleration/10 (10 denotes 1x),
// rounds to the nearest integer, and clamps to ±maxMoveComponent.
func accelerate(d float64, acceleration int) int {
	scaled := math.Round(d * float64(acceleration) / 10)
	if scaled > maxMoveComponent {
		return maxMoveComponent
	}
	if scaled < -maxMoveComponent {
		return -maxMoveComponent
	}
	return int(scaled)
}
