package pointer

import (
	"fmt"

	"github.com/bnema/gesturesd/internal/workerpool"
)

// externalBackend is the Wayland pointer backend: each call shells out to
// ydotool, the common Wayland input-injection helper, routed through the
// worker pool so a slow or hung helper invocation can never block the
// dispatcher. Calls are fire-and-forget; a failing helper invocation is
// treated as transient and logged, never propagated.
type externalBackend struct {
	pool *workerpool.Pool
}

// NewExternal builds a Wayland pointer backend that submits ydotool
// invocations to pool.
func NewExternal(pool *workerpool.Pool) Backend {
	return &externalBackend{pool: pool}
}

// ydotool's click bitmask packs button selection and up/down state into a
// single hex byte; 0x40 is "left down", 0x80 is "left up", and 0xC0 (the
// OR of both) is a full click. Only the left button is exercised by this
// daemon's direct-drag binding.
func clickMask(button int, press bool) string {
	var down string
	switch button {
	case ButtonLeft:
		down = "0x40"
	default:
		down = "0x40"
	}
	if press {
		return down
	}
	// "up" doubles the mask by shifting the down-bit into the up position.
	if down == "0x40" {
		return "0x80"
	}
	return down
}

func (b *externalBackend) Press(button int) error {
	b.pool.Submit(fmt.Sprintf("ydotool click %s", clickMask(button, true)))
	return nil
}

func (b *externalBackend) Release(button int) error {
	b.pool.Submit(fmt.Sprintf("ydotool click %s", clickMask(button, false)))
	return nil
}

func (b *externalBackend) MoveRelative(dx, dy int) error {
	b.pool.Submit(fmt.Sprintf("ydotool mousemove --relative -- %d %d", dx, dy))
	return nil
}

// Close is a no-op: the external backend owns no resources of its own, the
// worker pool it submits to is shut down independently.
func (b *externalBackend) Close() error { return nil }
