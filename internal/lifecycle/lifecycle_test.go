package lifecycle

import "testing"

func TestShuttingDownDefaultsFalse(t *testing.T) {
	l := New()
	defer l.Stop()
	if l.ShuttingDown() {
		t.Error("expected ShuttingDown to be false before any signal")
	}
}

func TestTriggerSetsShutdownFlag(t *testing.T) {
	l := New()
	defer l.Stop()
	l.Trigger()
	if !l.ShuttingDown() {
		t.Error("expected ShuttingDown to be true after Trigger")
	}
}
