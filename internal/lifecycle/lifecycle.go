// Package lifecycle implements signal handling and the shared shutdown
// flag every other component polls between events.
package lifecycle

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/bnema/gesturesd/internal/logger"
)

// Lifecycle owns the process-wide shutdown flag and the signal handler that
// sets it.
type Lifecycle struct {
	shuttingDown atomic.Bool
	sigs         chan os.Signal
}

// New installs handlers for SIGINT and SIGTERM. Call Wait (typically from a
// goroutine) to block until one arrives.
func New() *Lifecycle {
	l := &Lifecycle{sigs: make(chan os.Signal, 1)}
	signal.Notify(l.sigs, syscall.SIGINT, syscall.SIGTERM)
	return l
}

// ShuttingDown reports whether shutdown has been requested. Cheap enough to
// poll at every loop boundary.
func (l *Lifecycle) ShuttingDown() bool {
	return l.shuttingDown.Load()
}

// Trigger sets the shutdown flag without waiting for a signal; used by
// one-shot commands and tests.
func (l *Lifecycle) Trigger() {
	l.shuttingDown.Store(true)
	select {
	case l.sigs <- nil:
	default:
	}
}

// Wait blocks until SIGINT/SIGTERM arrives or Trigger is called directly,
// then sets the shutdown flag and returns the signal received (nil if
// triggered programmatically).
func (l *Lifecycle) Wait() os.Signal {
	sig := <-l.sigs
	logger.Infof("received signal %v, shutting down", sig)
	l.shuttingDown.Store(true)
	return sig
}

// Stop releases the signal handler registration. Safe to call once during
// an orderly shutdown.
func (l *Lifecycle) Stop() {
	signal.Stop(l.sigs)
}
