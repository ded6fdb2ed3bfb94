// Package dispatch matches each inbound gesture event against the index,
// resolves start/update/end commands, performs variable substitution, and
// routes work to either the drag engine or the worker pool.
package dispatch

import (
	"regexp"
	"strconv"

	"github.com/bnema/gesturesd/internal/drag"
	"github.com/bnema/gesturesd/internal/gesture"
	"github.com/bnema/gesturesd/internal/index"
	"github.com/bnema/gesturesd/internal/workerpool"
)

// substitutionPattern matches the four variable tokens recognized in
// command strings. Built once at startup rather than per event.
var substitutionPattern = regexp.MustCompile(`\$delta_x|\$delta_y|\$scale|\$delta_angle`)

// active tracks one in-flight gesture's accumulated state between Begin
// and End/Cancel.
type active struct {
	fingers int
	binding *gesture.Binding
	accDX   float64
	accDY   float64
	scale   float64
	angle   float64
}

// Dispatcher owns the per-gesture lifecycle and the downstream drag engine
// and worker pool it routes matched bindings to.
type Dispatcher struct {
	index *index.Cache
	drag  *drag.Engine
	pool  *workerpool.Pool

	current *active
}

// New builds a dispatcher over idx (refreshed lazily on Begin, per §4.4),
// dragEngine (the sole direct-drag consumer), and pool (every other
// action).
func New(idx *index.Cache, dragEngine *drag.Engine, pool *workerpool.Pool) *Dispatcher {
	return &Dispatcher{index: idx, drag: dragEngine, pool: pool}
}

// Dispatch processes a single event. It is only ever called from the
// single thread that owns the input-source read loop; it is not safe for
// concurrent use.
func (d *Dispatcher) Dispatch(ev gesture.Event) {
	switch ev.Phase {
	case gesture.Begin:
		d.begin(ev)
	case gesture.Update:
		d.update(ev)
	case gesture.End:
		d.end(ev)
	case gesture.Cancel:
		d.cancel(ev)
	}
}

func (d *Dispatcher) begin(ev gesture.Event) {
	snapshot := d.index.RefreshIfStale()
	bindings := snapshot.Bindings(ev.Fingers)

	d.current = &active{fingers: ev.Fingers, scale: 1.0}

	if ev.Kind == gesture.Hold {
		for i := range bindings {
			b := &bindings[i]
			if b.Kind != gesture.Hold {
				continue
			}
			d.pool.Submit(substitute(b.Action, ev))
			break
		}
		return
	}

	// A direct-drag binding is matched eagerly at Begin (its direction is
	// always Any, so no accumulated vector is needed yet) so the press
	// fires without waiting for the first Update.
	for i := range bindings {
		b := &bindings[i]
		if ev.Kind == gesture.Swipe && b.IsDirectDrag() && b.Fingers == ev.Fingers {
			d.current.binding = b
			d.drag.Begin(ev.Fingers, *b.Acceleration, *b.MouseUpDelayMs)
			return
		}
	}

	// Any other binding's direction can't be evaluated until it has an
	// accumulated vector (Update), except the direction/pinch-direction
	// Any case, whose start command can fire immediately.
	for i := range bindings {
		b := &bindings[i]
		if b.Kind != ev.Kind {
			continue
		}
		if ev.Kind == gesture.Swipe && b.Direction != gesture.DirAny {
			continue
		}
		if ev.Kind == gesture.Pinch && b.PinchDirection != gesture.PinchAny {
			continue
		}
		d.current.binding = b
		if b.StartCmd != "" {
			d.pool.Submit(substitute(b.StartCmd, ev))
		}
		return
	}
}

func (d *Dispatcher) accumulate(ev gesture.Event) {
	switch ev.Kind {
	case gesture.Swipe:
		d.current.accDX += ev.DX
		d.current.accDY += ev.DY
	case gesture.Pinch:
		d.current.scale = ev.Scale
		d.current.angle += ev.AngleDelta
	}
}

func (d *Dispatcher) update(ev gesture.Event) {
	if d.current == nil {
		return
	}

	d.accumulate(ev)

	if d.current.binding != nil && d.current.binding.IsDirectDrag() {
		d.drag.Update(ev.DX, ev.DY, false)
		return
	}

	snapshot := d.index.Current()
	b := matchBinding(snapshot.Bindings(d.current.fingers), ev.Kind, d.current.accDX, d.current.accDY, d.current.scale)
	if b == nil {
		return
	}
	d.current.binding = b

	if b.IsDirectDrag() {
		d.drag.Update(ev.DX, ev.DY, false)
		return
	}
	if b.UpdateCmd != "" {
		d.pool.Submit(substitute(b.UpdateCmd, ev))
	}
}

func (d *Dispatcher) end(ev gesture.Event) {
	if d.current == nil {
		return
	}
	if ev.Kind == gesture.Hold {
		d.current = nil
		return
	}

	d.accumulate(ev)
	cur := d.current
	d.current = nil

	snapshot := d.index.Current()
	b := matchBinding(snapshot.Bindings(cur.fingers), ev.Kind, cur.accDX, cur.accDY, cur.scale)

	if b != nil && b.IsDirectDrag() {
		if gesture.HasMagnitude(ev.DX, ev.DY) {
			d.drag.Update(ev.DX, ev.DY, true)
		}
		d.drag.End()
		return
	}
	if cur.binding != nil && cur.binding.IsDirectDrag() {
		if gesture.HasMagnitude(ev.DX, ev.DY) {
			d.drag.Update(ev.DX, ev.DY, true)
		}
		d.drag.End()
		return
	}
	if b != nil && b.EndCmd != "" {
		d.pool.Submit(substitute(b.EndCmd, ev))
	}
}

func (d *Dispatcher) cancel(ev gesture.Event) {
	if d.current == nil {
		return
	}
	cur := d.current
	d.current = nil

	if cur.binding != nil && cur.binding.IsDirectDrag() {
		d.drag.Cancel()
	}
}

// matchBinding returns the first binding in declaration order whose
// direction matches the accumulated vector/scale.
func matchBinding(bindings []gesture.Binding, kind gesture.Kind, dx, dy, scale float64) *gesture.Binding {
	for i := range bindings {
		b := &bindings[i]
		if b.Kind != kind {
			continue
		}
		switch kind {
		case gesture.Swipe:
			if b.MatchesSwipeDirection(dx, dy) {
				return b
			}
		case gesture.Pinch:
			if b.MatchesPinchDirection(scale) {
				return b
			}
		}
	}
	return nil
}

// substitute replaces the four recognized tokens in cmd with ev's numeric
// values, formatted without a locale. An undefined token (e.g. $scale in a
// swipe command) resolves to "0". This is pure text replacement; it never
// invokes a subshell.
func substitute(cmd string, ev gesture.Event) string {
	if cmd == "" {
		return cmd
	}
	return substitutionPattern.ReplaceAllStringFunc(cmd, func(token string) string {
		switch token {
		case "$delta_x":
			return formatNumber(ev.DX, ev.Kind == gesture.Swipe)
		case "$delta_y":
			return formatNumber(ev.DY, ev.Kind == gesture.Swipe)
		case "$scale":
			return formatNumber(ev.Scale, ev.Kind == gesture.Pinch)
		case "$delta_angle":
			return formatNumber(ev.AngleDelta, ev.Kind == gesture.Pinch)
		default:
			return token
		}
	})
}

func formatNumber(v float64, defined bool) string {
	if !defined {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
