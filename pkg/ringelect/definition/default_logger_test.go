package definition

import "testing"

func TestDefaultLogger_ToggleDebug(t *testing.T) {
	l := NewDefaultLogger()
	if l.ToggleDebug(true) != true {
		t.Fatalf("expected ToggleDebug(true) to return true")
	}
	if l.ToggleDebug(false) != false {
		t.Fatalf("expected ToggleDebug(false) to return false")
	}
}

func TestDefaultLogger_WithRunIDReturnsIndependentLogger(t *testing.T) {
	base := NewDefaultLogger()
	base.ToggleDebug(true)
	child := base.WithRunID("run-1")
	if !child.debug {
		t.Fatalf("expected WithRunID to carry over the debug flag")
	}
	child.ToggleDebug(false)
	if !base.debug {
		t.Fatalf("toggling the child's debug flag changed the base logger")
	}
}
