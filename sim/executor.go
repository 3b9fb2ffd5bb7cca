package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"picodelay/core"
)

// ErrTimeLimit is returned when tasks are still running at the time limit
var ErrTimeLimit = errors.New("sim: time limit reached")

// Task is a simulated task that sleeps through a sequence of delays
type Task struct {
	Name   string
	Delays []time.Duration
	Repeat int // times to run the sequence, at least once
}

// Wake records one completed delay
type Wake struct {
	Task      string
	Seq       int
	Timeout   time.Duration
	Scheduled core.Instant
	Deadline  core.Instant
	Resumed   core.Instant
}

// Latency is how long after its deadline the delay was resumed
func (w Wake) Latency() time.Duration {
	return time.Duration(int64(w.Resumed)-int64(w.Deadline)) * time.Microsecond
}

type taskRun struct {
	task      Task
	seq       int
	total     int
	delay     *core.Delay
	scheduled core.Instant
	flag      core.Flag
}

func (r *taskRun) finished() bool {
	return r.seq >= r.total
}

func (r *taskRun) timeout() time.Duration {
	return r.task.Delays[r.seq%len(r.task.Delays)]
}

// Executor is a single-threaded round-robin poller over simulated tasks.
// A task is only polled after its waker fired, like a real cooperative
// executor; tasks refused a slot retry after the next alarm tick.
type Executor struct {
	sched   core.Scheduler
	machine *Machine
	log     zerolog.Logger
	runs    []*taskRun
	wakes   []Wake
}

// NewExecutor creates an executor over an initialized scheduler
func NewExecutor(sched core.Scheduler, machine *Machine, log zerolog.Logger) *Executor {
	return &Executor{sched: sched, machine: machine, log: log}
}

// Spawn adds a task. Tasks without delays are ignored.
func (e *Executor) Spawn(t Task) {
	if len(t.Delays) == 0 {
		return
	}
	repeat := t.Repeat
	if repeat < 1 {
		repeat = 1
	}
	e.runs = append(e.runs, &taskRun{task: t, total: repeat * len(t.Delays)})
}

// Run services tasks until all finish or the machine reaches limit
func (e *Executor) Run(limit core.Instant) ([]Wake, error) {
	defer e.Close()

	if err := e.service(); err != nil {
		return e.wakes, err
	}
	for !e.idle() {
		if e.machine.Now() >= limit {
			return e.wakes, fmt.Errorf("%w at %v", ErrTimeLimit, e.machine.Now().Duration())
		}
		if _, err := e.machine.Step(); err != nil {
			return e.wakes, err
		}
		if err := e.service(); err != nil {
			return e.wakes, err
		}
	}
	return e.wakes, nil
}

// Close releases the slots of unfinished tasks
func (e *Executor) Close() {
	for _, r := range e.runs {
		if r.delay != nil {
			r.delay.Close()
			r.delay = nil
		}
	}
}

func (e *Executor) idle() bool {
	for _, r := range e.runs {
		if !r.finished() {
			return false
		}
	}
	return true
}

// service polls every task that was woken or still needs a delay
func (e *Executor) service() error {
	for _, r := range e.runs {
		if err := e.advance(r); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) advance(r *taskRun) error {
	for !r.finished() {
		if r.delay == nil {
			d, err := e.sched.Schedule(r.timeout())
			if errors.Is(err, core.ErrPoolExhausted) {
				e.log.Warn().Str("task", r.task.Name).Int("seq", r.seq).Msg("no free wake slot, retrying next tick")
				return nil
			}
			if err != nil {
				return fmt.Errorf("task %s: %w", r.task.Name, err)
			}
			r.delay = d
			r.scheduled = e.machine.Now()
		} else if !r.flag.Take() {
			return nil
		}

		if !r.delay.Poll(&r.flag) {
			return nil
		}

		w := Wake{
			Task:      r.task.Name,
			Seq:       r.seq,
			Timeout:   r.timeout(),
			Scheduled: r.scheduled,
			Deadline:  r.delay.Deadline(),
			Resumed:   e.machine.Now(),
		}
		e.wakes = append(e.wakes, w)
		e.log.Debug().
			Str("task", w.Task).
			Int("seq", w.Seq).
			Dur("timeout", w.Timeout).
			Dur("at", w.Resumed.Duration()).
			Dur("latency", w.Latency()).
			Int("slot", r.delay.SlotIndex()).
			Msg("delay completed")

		r.delay.Close()
		r.delay = nil
		r.seq++
	}
	return nil
}
