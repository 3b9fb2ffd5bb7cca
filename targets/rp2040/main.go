//go:build rp2040

// Delay scheduler demo firmware for the Raspberry Pi Pico.
//
// Build with exactly one alarm tag, e.g.:
//
//	tinygo flash -target=pico -tags alarm1 ./targets/rp2040
//
// Status lines are printed on the USB console; host/cmd/delaymon follows them.
package main

import (
	"machine"
	"time"

	"picodelay/core"
)

const (
	// resolution is the sweep interval: delays wake at most this late
	resolution = time.Millisecond

	blinkPeriod  = 500 * time.Millisecond
	samplePeriod = 100 * time.Millisecond
	statusPeriod = 5 * time.Second
)

// wakeSlots bounds the number of delays pending at once, one per task here
var wakeSlots [4]core.Slot

func main() {
	// Give the USB console time to enumerate before the first lines
	time.Sleep(2 * time.Second)

	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)
	core.SetupSlots(wakeSlots[:])

	sched := core.MustInit(newHardwareAlarm(), hardwareClock{}, resolution)

	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	tasks := []task{
		&blinkTask{sleep: sleeper{sched: sched}, led: machine.LED, period: blinkPeriod},
		&statusTask{sleep: sleeper{sched: sched}, period: statusPeriod},
	}
	if sensor, err := newSensorTask(sched, samplePeriod); err != nil {
		println("[ACCEL] disabled: " + err.Error())
	} else {
		tasks = append(tasks, sensor)
	}

	runTasks(tasks)
}

// blinkTask toggles the on-board LED
type blinkTask struct {
	sleep  sleeper
	led    machine.Pin
	period time.Duration
	on     bool
}

func (b *blinkTask) poll(w core.Waker) {
	for b.sleep.elapsed(b.period, w) {
		b.on = !b.on
		b.led.Set(b.on)
	}
}

// statusTask prints the scheduler counters
type statusTask struct {
	sleep  sleeper
	period time.Duration
}

func (s *statusTask) poll(w core.Waker) {
	for s.sleep.elapsed(s.period, w) {
		println(core.StatusLine(core.ReadStats()))
	}
}
