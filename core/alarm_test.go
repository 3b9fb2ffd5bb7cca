package core

import (
	"errors"
	"testing"
	"time"
)

// Resolution 10ms, 25ms timeout at t=0, sweeps at 10, 20 and 30ms
func TestSweepScenario(t *testing.T) {
	s, alarm, clock := setupScheduler(t, 0, 10*time.Millisecond)

	d := s.MustSchedule(25 * time.Millisecond)
	defer d.Close()

	w := &countWaker{}
	if d.Poll(w) {
		t.Fatal("t=0: expected not ready")
	}

	for _, ms := range []int{10, 20} {
		clock.Set(Instant(ms * 1000))
		HandleAlarm()
		if w.n != 0 {
			t.Fatalf("t=%dms: waker fired before the deadline", ms)
		}
		if d.Poll(w) {
			t.Fatalf("t=%dms: expected not ready", ms)
		}
	}

	clock.Set(30000)
	HandleAlarm()
	if w.n != 1 {
		t.Fatalf("t=30ms: expected exactly one wake, got %d", w.n)
	}
	if !d.Poll(w) {
		t.Fatal("t=30ms: expected ready")
	}

	if alarm.clears != 3 {
		t.Errorf("Expected 3 interrupt clears, got %d", alarm.clears)
	}
	if len(alarm.armed) != 4 {
		t.Errorf("Expected alarm armed 4 times (init + 3 sweeps), got %d", len(alarm.armed))
	}
	for i, interval := range alarm.armed {
		if interval != 10000 {
			t.Errorf("Arm %d: expected 10000us, got %d", i, interval)
		}
	}

	st := ReadStats()
	if st.Sweeps != 3 || st.Wakes != 1 {
		t.Errorf("Expected 3 sweeps and 1 wake, got %+v", st)
	}
}

func TestSweepWakesAllExpired(t *testing.T) {
	s, _, clock := setupScheduler(t, 0, time.Millisecond)

	timeouts := []time.Duration{2 * time.Millisecond, 5 * time.Millisecond, 9 * time.Millisecond}
	wakers := make([]*countWaker, len(timeouts))
	for i, timeout := range timeouts {
		d := s.MustSchedule(timeout)
		defer d.Close()
		wakers[i] = &countWaker{}
		d.Poll(wakers[i])
	}

	clock.Set(5000)
	HandleAlarm()
	for i, want := range []int{1, 1, 0} {
		if wakers[i].n != want {
			t.Errorf("Delay %d: expected %d wakes, got %d", i, want, wakers[i].n)
		}
	}

	// Slots stay pending, so unreleased expired delays are woken again
	clock.Set(9000)
	HandleAlarm()
	for i, want := range []int{2, 2, 1} {
		if wakers[i].n != want {
			t.Errorf("Delay %d: expected %d wakes, got %d", i, want, wakers[i].n)
		}
	}
}

func TestSweepReadsClockOnce(t *testing.T) {
	resetScheduler()
	t.Cleanup(resetScheduler)

	clock := &countingClock{}
	s := MustInit(&fakeAlarm{}, clock, time.Millisecond)
	for i := 0; i < 4; i++ {
		d := s.MustSchedule(time.Second)
		defer d.Close()
		d.Poll(&countWaker{})
	}

	clock.calls = 0
	HandleAlarm()
	if clock.calls != 1 {
		t.Errorf("Expected one clock read per sweep, got %d", clock.calls)
	}
}

func TestHandleAlarmRearmFailurePanics(t *testing.T) {
	_, alarm, _ := setupScheduler(t, 0, time.Millisecond)
	alarm.fail = errors.New("alarm stuck")

	r := mustPanic(t, func() { HandleAlarm() })
	if err, ok := r.(error); !ok || !errors.Is(err, ErrAlarm) {
		t.Errorf("Expected ErrAlarm panic, got %v", r)
	}

	// The exclusion domain must be released after the panic
	ReadStats()
}

func TestHandleAlarmBeforeInitPanics(t *testing.T) {
	resetScheduler()
	t.Cleanup(resetScheduler)

	r := mustPanic(t, func() { HandleAlarm() })
	if r != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized panic, got %v", r)
	}
}

func TestStatusLine(t *testing.T) {
	got := StatusLine(Stats{Sweeps: 120, Wakes: 7, Exhausted: 1, Live: 3, Peak: 5, Capacity: 16})
	want := "[DELAY] sweeps=120 wakes=7 live=3 peak=5 slots=16 exhausted=1"
	if got != want {
		t.Errorf("StatusLine = %q, want %q", got, want)
	}
}
