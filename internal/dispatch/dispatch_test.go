package dispatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/gesturesd/internal/drag"
	"github.com/bnema/gesturesd/internal/gesture"
	"github.com/bnema/gesturesd/internal/index"
	"github.com/bnema/gesturesd/internal/workerpool"
)

type fakeBackend struct {
	calls []string
}

func (f *fakeBackend) Press(button int) error        { f.calls = append(f.calls, "press"); return nil }
func (f *fakeBackend) Release(button int) error      { f.calls = append(f.calls, "release"); return nil }
func (f *fakeBackend) MoveRelative(dx, dy int) error  { f.calls = append(f.calls, "move"); return nil }
func (f *fakeBackend) Close() error                   { return nil }

func intPtr(v int) *int { return &v }

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s to be created", path)
}

func TestDispatchDirectDragLifecycle(t *testing.T) {
	bindings := []gesture.Binding{
		{Kind: gesture.Swipe, Fingers: 3, Direction: gesture.DirAny, MouseUpDelayMs: intPtr(50), Acceleration: intPtr(10)},
	}
	idx := index.New(func() []gesture.Binding { return bindings })
	fb := &fakeBackend{}
	engine := drag.New(fb, 60)
	pool := workerpool.New(1)
	defer pool.Close()
	d := New(idx, engine, pool)

	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.Begin, Fingers: 3})
	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.Update, Fingers: 3, DX: 5, DY: 0})
	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.End, Fingers: 3, DX: 0, DY: 0})

	if engine.State() != drag.Lifting {
		t.Fatalf("drag state = %v, want Lifting", engine.State())
	}
	if len(fb.calls) < 1 || fb.calls[0] != "press" {
		t.Fatalf("backend calls = %v, want to start with press", fb.calls)
	}
	moveCount := 0
	for _, c := range fb.calls {
		if c == "move" {
			moveCount++
		}
	}
	if moveCount != 1 {
		t.Fatalf("backend calls = %v, want exactly one move (from Update; End carried a zero delta and shouldn't add another)", fb.calls)
	}

	time.Sleep(80 * time.Millisecond)
	if engine.State() != drag.Idle {
		t.Fatalf("drag state after timer = %v, want Idle", engine.State())
	}
}

func TestDispatchHoldActionFiresOnBegin(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "hold")
	bindings := []gesture.Binding{
		{Kind: gesture.Hold, Fingers: 3, Action: "touch " + marker},
	}
	idx := index.New(func() []gesture.Binding { return bindings })
	pool := workerpool.New(1)
	defer pool.Close()
	d := New(idx, drag.New(&fakeBackend{}, 60), pool)

	d.Dispatch(gesture.Event{Kind: gesture.Hold, Phase: gesture.Begin, Fingers: 3})

	waitForFile(t, marker)
}

func TestDispatchSwipeDirectionalEndCommandFiresAtEnd(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "left")
	bindings := []gesture.Binding{
		{Kind: gesture.Swipe, Fingers: 4, Direction: gesture.DirW, EndCmd: "touch " + marker},
	}
	idx := index.New(func() []gesture.Binding { return bindings })
	pool := workerpool.New(1)
	defer pool.Close()
	d := New(idx, drag.New(&fakeBackend{}, 60), pool)

	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.Begin, Fingers: 4})
	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.Update, Fingers: 4, DX: -100, DY: 2})
	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.End, Fingers: 4, DX: -100, DY: 2})

	waitForFile(t, marker)
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("expected end command marker: %v", err)
	}
}

func TestDispatchPinchDirectionMatchesIn(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "zoomout")
	bindings := []gesture.Binding{
		{Kind: gesture.Pinch, Fingers: 2, PinchDirection: gesture.PinchIn, EndCmd: "touch " + marker},
	}
	idx := index.New(func() []gesture.Binding { return bindings })
	pool := workerpool.New(1)
	defer pool.Close()
	d := New(idx, drag.New(&fakeBackend{}, 60), pool)

	d.Dispatch(gesture.Event{Kind: gesture.Pinch, Phase: gesture.Begin, Fingers: 2, Scale: 1.0})
	d.Dispatch(gesture.Event{Kind: gesture.Pinch, Phase: gesture.Update, Fingers: 2, Scale: 0.8})
	d.Dispatch(gesture.Event{Kind: gesture.Pinch, Phase: gesture.End, Fingers: 2, Scale: 0.7})

	waitForFile(t, marker)
}

func TestDispatchCancelForwardsToDragEngineAndReleases(t *testing.T) {
	bindings := []gesture.Binding{
		{Kind: gesture.Swipe, Fingers: 3, Direction: gesture.DirAny, MouseUpDelayMs: intPtr(500), Acceleration: intPtr(10)},
	}
	idx := index.New(func() []gesture.Binding { return bindings })
	fb := &fakeBackend{}
	engine := drag.New(fb, 60)
	pool := workerpool.New(1)
	defer pool.Close()
	d := New(idx, engine, pool)

	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.Begin, Fingers: 3})
	d.Dispatch(gesture.Event{Kind: gesture.Swipe, Phase: gesture.Cancel, Fingers: 3})

	if engine.State() != drag.Idle {
		t.Fatalf("drag state = %v, want Idle after cancel", engine.State())
	}
	if fb.calls[len(fb.calls)-1] != "release" {
		t.Fatalf("expected release after cancel, got %v", fb.calls)
	}
}

func TestSubstituteReplacesKnownTokens(t *testing.T) {
	ev := gesture.Event{Kind: gesture.Swipe, DX: 5, DY: -2.5}
	got := substitute("move $delta_x $delta_y scale=$scale", ev)
	want := "move 5 -2.5 scale=0"
	if got != want {
		t.Errorf("substitute() = %q, want %q", got, want)
	}
}

func TestSubstituteIgnoresEmptyCommand(t *testing.T) {
	if got := substitute("", gesture.Event{}); got != "" {
		t.Errorf("substitute(\"\") = %q, want empty", got)
	}
}
