package input

import (
	"regexp"

	"github.com/bnema/gesturesd/internal/gesture"
)

// These patterns follow the shape of libinput debug-events output, e.g.:
//
//	event9   GESTURE_SWIPE_BEGIN    +8.852s	3
//	event9   GESTURE_SWIPE_UPDATE   +8.872s	3  0.71/-2.07 (0.52/-1.49 unaccelerated)
//	event9   GESTURE_SWIPE_END      +8.912s	3
//	event9   GESTURE_PINCH_UPDATE   +2.032s	2  0.01/-0.02 (0.01/-0.02 unaccelerated) 1.02 0.00
//	event9   GESTURE_HOLD_BEGIN     +1.002s	3
//	event9   GESTURE_HOLD_END       +1.452s	3 (cancelled)
//
// A trailing "(cancelled)" on an END line reports a Cancel instead of an End.
var (
	swipeRegex = regexp.MustCompile(
		`^\s*\S+\s+GESTURE_SWIPE_(BEGIN|UPDATE|END)\s+\+[\d.]+s\s+(\d+)` +
			`(?:\s+(-?[\d.]+)/(-?[\d.]+)\s+\((-?[\d.]+)/(-?[\d.]+)\s+unaccelerated\))?` +
			`(\s+\(cancelled\))?\s*$`)

	pinchRegex = regexp.MustCompile(
		`^\s*\S+\s+GESTURE_PINCH_(BEGIN|UPDATE|END)\s+\+[\d.]+s\s+(\d+)` +
			`(?:\s+(-?[\d.]+)/(-?[\d.]+)\s+\((-?[\d.]+)/(-?[\d.]+)\s+unaccelerated\)\s+([\d.]+)\s+(-?[\d.]+))?` +
			`(\s+\(cancelled\))?\s*$`)

	holdRegex = regexp.MustCompile(
		`^\s*\S+\s+GESTURE_HOLD_(BEGIN|END)\s+\+[\d.]+s\s+(\d+)(\s+\(cancelled\))?\s*$`)

	deviceAddedRegex = regexp.MustCompile(`^\s*\S+\s+DEVICE_ADDED\b`)
)

// parseLine decodes one line of libinput debug-events output into a
// gesture.Event. Lines that aren't gesture events (DEVICE_ADDED, pointer
// motion, unrecognized) return ok=false.
func parseLine(line string) (gesture.Event, bool) {
	if deviceAddedRegex.MatchString(line) {
		return gesture.Event{}, false
	}

	if m := swipeRegex.FindStringSubmatch(line); m != nil {
		ev := gesture.Event{
			Kind:    gesture.Swipe,
			Phase:   phaseOf(m[1], m[7] != ""),
			Fingers: parseInt(m[2]),
		}
		if m[3] != "" {
			ev.DX = parseFloat(m[3])
			ev.DY = parseFloat(m[4])
			ev.DXUnaccel = parseFloat(m[5])
			ev.DYUnaccel = parseFloat(m[6])
		}
		return ev, true
	}

	if m := pinchRegex.FindStringSubmatch(line); m != nil {
		ev := gesture.Event{
			Kind:    gesture.Pinch,
			Phase:   phaseOf(m[1], m[9] != ""),
			Fingers: parseInt(m[2]),
			Scale:   1.0,
		}
		if m[3] != "" {
			ev.DX = parseFloat(m[3])
			ev.DY = parseFloat(m[4])
			ev.DXUnaccel = parseFloat(m[5])
			ev.DYUnaccel = parseFloat(m[6])
			ev.Scale = parseFloat(m[7])
			ev.AngleDelta = parseFloat(m[8])
		}
		return ev, true
	}

	if m := holdRegex.FindStringSubmatch(line); m != nil {
		ev := gesture.Event{
			Kind:    gesture.Hold,
			Phase:   phaseOf(m[1], m[3] != ""),
			Fingers: parseInt(m[2]),
		}
		return ev, true
	}

	return gesture.Event{}, false
}

func phaseOf(token string, cancelled bool) gesture.Phase {
	if cancelled {
		return gesture.Cancel
	}
	switch token {
	case "BEGIN":
		return gesture.Begin
	case "UPDATE":
		return gesture.Update
	case "END":
		return gesture.End
	default:
		return gesture.End
	}
}
