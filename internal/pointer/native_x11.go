//go:build linux

package pointer

/*
#cgo LDFLAGS: -lX11 -lXtst
#include <X11/Xlib.h>
#include <X11/extensions/XTest.h>
*/
import "C"

import (
	"runtime"
	"sync"

	"github.com/bnema/gesturesd/internal/logger"
)

// nativeBackend is the X11 pointer backend: a dedicated thread owns the
// Xlib Display handle (not thread-safe to share) and executes commands
// sent over a channel in FIFO order.
type nativeBackend struct {
	cmds     chan func(*C.Display)
	done     chan struct{}
	closeOnce sync.Once
	degraded bool
}

// NewNative opens an X11 connection on a dedicated thread. If the
// connection cannot be established, it logs a warning and returns a
// backend in degraded mode where every call is a no-op — the process does
// not abort.
func NewNative() Backend {
	populateX11Environment()

	b := &nativeBackend{
		cmds: make(chan func(*C.Display), 64),
		done: make(chan struct{}),
	}
	ready := make(chan bool, 1)
	go b.run(ready)

	if !<-ready {
		b.degraded = true
		logger.Warn("native X11 pointer backend: could not open display, continuing in degraded (no-op) mode")
	}
	return b
}

func (b *nativeBackend) run(ready chan<- bool) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		ready <- false
		return
	}
	ready <- true
	defer C.XCloseDisplay(dpy)

	for {
		select {
		case op, ok := <-b.cmds:
			if !ok {
				return
			}
			op(dpy)
		case <-b.done:
			return
		}
	}
}

func (b *nativeBackend) enqueue(op func(*C.Display)) error {
	if b.degraded {
		return nil
	}
	select {
	case b.cmds <- op:
	case <-b.done:
	}
	return nil
}

func (b *nativeBackend) Press(button int) error {
	return b.enqueue(func(dpy *C.Display) {
		C.XTestFakeButtonEvent(dpy, C.uint(button), C.True, C.CurrentTime)
		C.XFlush(dpy)
	})
}

func (b *nativeBackend) Release(button int) error {
	return b.enqueue(func(dpy *C.Display) {
		C.XTestFakeButtonEvent(dpy, C.uint(button), C.False, C.CurrentTime)
		C.XFlush(dpy)
	})
}

func (b *nativeBackend) MoveRelative(dx, dy int) error {
	return b.enqueue(func(dpy *C.Display) {
		C.XTestFakeRelativeMotionEvent(dpy, C.int(dx), C.int(dy), C.CurrentTime)
		C.XFlush(dpy)
	})
}

func (b *nativeBackend) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}
