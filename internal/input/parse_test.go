package input

import (
	"testing"

	"github.com/bnema/gesturesd/internal/gesture"
)

func TestParseLineSwipeBegin(t *testing.T) {
	ev, ok := parseLine(" event9   GESTURE_SWIPE_BEGIN    +8.852s\t3")
	if !ok {
		t.Fatal("expected a parsed event")
	}
	if ev.Kind != gesture.Swipe || ev.Phase != gesture.Begin || ev.Fingers != 3 {
		t.Errorf("got %+v", ev)
	}
}

func TestParseLineSwipeUpdateWithDeltas(t *testing.T) {
	ev, ok := parseLine(" event9   GESTURE_SWIPE_UPDATE   +8.872s\t3  0.71/-2.07 (0.52/-1.49 unaccelerated)")
	if !ok {
		t.Fatal("expected a parsed event")
	}
	if ev.Kind != gesture.Swipe || ev.Phase != gesture.Update || ev.Fingers != 3 {
		t.Fatalf("got %+v", ev)
	}
	if ev.DX != 0.71 || ev.DY != -2.07 {
		t.Errorf("DX/DY = %v/%v, want 0.71/-2.07", ev.DX, ev.DY)
	}
	if ev.DXUnaccel != 0.52 || ev.DYUnaccel != -1.49 {
		t.Errorf("DXUnaccel/DYUnaccel = %v/%v, want 0.52/-1.49", ev.DXUnaccel, ev.DYUnaccel)
	}
}

func TestParseLineSwipeEndCancelled(t *testing.T) {
	ev, ok := parseLine(" event9   GESTURE_SWIPE_END      +8.912s\t3 (cancelled)")
	if !ok {
		t.Fatal("expected a parsed event")
	}
	if ev.Phase != gesture.Cancel {
		t.Errorf("phase = %v, want Cancel", ev.Phase)
	}
}

func TestParseLinePinchUpdate(t *testing.T) {
	ev, ok := parseLine(" event9   GESTURE_PINCH_UPDATE   +2.032s\t2  0.01/-0.02 (0.01/-0.02 unaccelerated) 1.02 0.00")
	if !ok {
		t.Fatal("expected a parsed event")
	}
	if ev.Kind != gesture.Pinch || ev.Scale != 1.02 {
		t.Fatalf("got %+v", ev)
	}
}

func TestParseLinePinchBeginDefaultsScaleToOne(t *testing.T) {
	ev, ok := parseLine(" event9   GESTURE_PINCH_BEGIN    +2.002s\t2")
	if !ok {
		t.Fatal("expected a parsed event")
	}
	if ev.Scale != 1.0 {
		t.Errorf("Scale = %v, want 1.0 at begin", ev.Scale)
	}
}

func TestParseLineHoldBeginAndEnd(t *testing.T) {
	begin, ok := parseLine(" event9   GESTURE_HOLD_BEGIN     +1.002s\t3")
	if !ok || begin.Kind != gesture.Hold || begin.Phase != gesture.Begin {
		t.Fatalf("begin = %+v, ok=%v", begin, ok)
	}
	end, ok := parseLine(" event9   GESTURE_HOLD_END       +1.452s\t3")
	if !ok || end.Phase != gesture.End {
		t.Fatalf("end = %+v, ok=%v", end, ok)
	}
}

func TestParseLineIgnoresDeviceAddedAndGarbage(t *testing.T) {
	if _, ok := parseLine(" event9   DEVICE_ADDED     +0.000s\tSynPS/2 Synaptics TouchPadseat0 default group5  cap:pt"); ok {
		t.Error("expected DEVICE_ADDED to be ignored")
	}
	if _, ok := parseLine("not a libinput line at all"); ok {
		t.Error("expected garbage to be ignored")
	}
}
