package index

import (
	"testing"
	"time"

	"github.com/bnema/gesturesd/internal/gesture"
)

func TestBuildBucketsByFingerCount(t *testing.T) {
	bindings := []gesture.Binding{
		{Kind: gesture.Swipe, Fingers: 3, Direction: gesture.DirW},
		{Kind: gesture.Swipe, Fingers: 3, Direction: gesture.DirE},
		{Kind: gesture.Swipe, Fingers: 4, Direction: gesture.DirN},
	}
	c := New(func() []gesture.Binding { return bindings })

	three := c.Current().Bindings(3)
	if len(three) != 2 {
		t.Fatalf("expected 2 bindings for 3 fingers, got %d", len(three))
	}
	// Declaration order preserved: west before east.
	if three[0].Direction != gesture.DirW || three[1].Direction != gesture.DirE {
		t.Error("expected declaration order to be preserved")
	}

	four := c.Current().Bindings(4)
	if len(four) != 1 {
		t.Fatalf("expected 1 binding for 4 fingers, got %d", len(four))
	}

	if c.Current().Bindings(5) != nil {
		t.Error("expected nil for unmatched finger count")
	}
}

func TestRefreshIfStaleHonorsOneSecondFloor(t *testing.T) {
	calls := 0
	c := New(func() []gesture.Binding {
		calls++
		return nil
	})
	if calls != 1 {
		t.Fatalf("expected 1 build call on construction, got %d", calls)
	}

	c.RefreshIfStale()
	if calls != 1 {
		t.Errorf("refresh before 1s elapsed should not rebuild, got %d calls", calls)
	}

	c.lastRefresh = time.Now().Add(-2 * time.Second)
	c.RefreshIfStale()
	if calls != 2 {
		t.Errorf("refresh after 1s elapsed should rebuild, got %d calls", calls)
	}
}
