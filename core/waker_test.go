package core

import "testing"

func TestFlagTake(t *testing.T) {
	var f Flag
	if f.Take() {
		t.Fatal("Expected zero Flag to be clear")
	}
	f.Wake()
	f.Wake()
	if !f.Take() {
		t.Fatal("Expected Take to report the wake")
	}
	if f.Take() {
		t.Error("Expected Take to clear the flag")
	}
}

func TestSignalCoalesces(t *testing.T) {
	s := NewSignal()
	s.Wake()
	s.Wake() // must not block

	select {
	case <-s:
	default:
		t.Fatal("Expected a pending wake")
	}
	select {
	case <-s:
		t.Error("Expected wakes to coalesce into one")
	default:
	}
}

func TestWakerFunc(t *testing.T) {
	called := 0
	var w Waker = WakerFunc(func() { called++ })
	w.Wake()
	if called != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}
