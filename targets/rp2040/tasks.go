//go:build rp2040

package main

import (
	"device/arm"
	"runtime"
	"time"

	"picodelay/core"
)

// task is a cooperative state machine. poll runs until the task has to wait
// again and must register w with whatever it waits on.
type task interface {
	poll(w core.Waker)
}

type taskSlot struct {
	task task
	flag core.Flag
}

// runTasks polls woken tasks round-robin and sleeps until the next interrupt
// when none is runnable. It never returns.
func runTasks(tasks []task) {
	slots := make([]taskSlot, len(tasks))
	for i := range slots {
		slots[i].task = tasks[i]
		slots[i].flag.Wake() // first poll starts each task
	}

	for {
		ran := false
		for i := range slots {
			if slots[i].flag.Take() {
				slots[i].task.poll(&slots[i].flag)
				ran = true
			}
		}
		if !ran {
			runtime.Gosched()
			// A wake that lands between the scan and wfi is seen one tick later
			arm.Asm("wfi")
		}
	}
}

// sleeper runs one delay at a time on behalf of a task. Wake slots are sized
// at build time, so running out is a configuration error and panics.
type sleeper struct {
	sched core.Scheduler
	delay *core.Delay
}

// elapsed starts a delay of d if none is running and reports whether it has
// completed. A completed delay is released so the next call starts a new one.
func (s *sleeper) elapsed(d time.Duration, w core.Waker) bool {
	if s.delay == nil {
		s.delay = s.sched.MustSchedule(d)
	}
	if !s.delay.Poll(w) {
		return false
	}
	s.delay.Close()
	s.delay = nil
	return true
}
