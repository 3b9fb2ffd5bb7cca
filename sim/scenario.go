package sim

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"picodelay/core"
)

// Scenario describes a simulation run. Durations are Go duration strings.
type Scenario struct {
	Resolution string         `yaml:"resolution"`
	Slots      int            `yaml:"slots"`
	Limit      string         `yaml:"limit"`
	Tasks      []TaskScenario `yaml:"tasks"`
}

// TaskScenario describes one task of a scenario
type TaskScenario struct {
	Name   string   `yaml:"name"`
	Delays []string `yaml:"delays"`
	Repeat int      `yaml:"repeat"`
}

// Plan is a validated scenario ready to run
type Plan struct {
	Resolution time.Duration
	Slots      int
	Limit      time.Duration
	Tasks      []Task
}

// LoadScenario reads and validates a YAML scenario file
func LoadScenario(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a YAML scenario
func ParseScenario(data []byte) (*Plan, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	applyDefaults(&sc)
	return sc.Plan()
}

// applyDefaults fills in missing scenario values
func applyDefaults(sc *Scenario) {
	if strings.TrimSpace(sc.Resolution) == "" {
		sc.Resolution = "1ms"
	}
	if sc.Slots == 0 {
		sc.Slots = core.DefaultSlotCount
	}
	if strings.TrimSpace(sc.Limit) == "" {
		sc.Limit = "1m"
	}
	for i := range sc.Tasks {
		if sc.Tasks[i].Name == "" {
			sc.Tasks[i].Name = fmt.Sprintf("task%d", i)
		}
		if sc.Tasks[i].Repeat == 0 {
			sc.Tasks[i].Repeat = 1
		}
	}
}

// Plan validates the scenario and converts its durations
func (sc *Scenario) Plan() (*Plan, error) {
	resolution, err := parseDuration("resolution", sc.Resolution)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateResolution(resolution); err != nil {
		return nil, fmt.Errorf("resolution: %s: %w", sc.Resolution, err)
	}
	limit, err := parseDuration("limit", sc.Limit)
	if err != nil {
		return nil, err
	}
	if sc.Slots < 1 {
		return nil, fmt.Errorf("slots: must be >= 1, got %d", sc.Slots)
	}
	if len(sc.Tasks) == 0 {
		return nil, fmt.Errorf("tasks: at least one task is required")
	}

	p := &Plan{Resolution: resolution, Slots: sc.Slots, Limit: limit}
	for i, ts := range sc.Tasks {
		if ts.Repeat < 1 {
			return nil, fmt.Errorf("tasks[%d].repeat: must be >= 1, got %d", i, ts.Repeat)
		}
		if len(ts.Delays) == 0 {
			return nil, fmt.Errorf("tasks[%d].delays: at least one delay is required", i)
		}
		t := Task{Name: ts.Name, Repeat: ts.Repeat}
		for j, raw := range ts.Delays {
			d, err := parseDuration(fmt.Sprintf("tasks[%d].delays[%d]", i, j), raw)
			if err != nil {
				return nil, err
			}
			t.Delays = append(t.Delays, d)
		}
		p.Tasks = append(p.Tasks, t)
	}
	return p, nil
}

func parseDuration(path, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// Report summarizes a finished run
type Report struct {
	Resolution time.Duration
	Wakes      []Wake
	Late       []Wake // resumed more than one resolution after the deadline
	MaxLatency time.Duration
	Stats      core.Stats
}

// OK reports whether every delay woke within one resolution of its deadline
func (r *Report) OK() bool {
	return len(r.Late) == 0
}

// Run executes a plan on a fresh machine. It reinitializes the process-wide
// scheduler, so runs must not overlap.
func Run(p *Plan, log zerolog.Logger) (*Report, error) {
	core.SetupSlots(make([]core.Slot, p.Slots))

	m := NewMachine()
	sched, err := core.Init(m.Alarm, m.Clock, p.Resolution)
	if err != nil {
		return nil, err
	}

	e := NewExecutor(sched, m, log)
	for _, t := range p.Tasks {
		e.Spawn(t)
	}

	limit := core.Instant(p.Limit / time.Microsecond)
	wakes, err := e.Run(limit)

	r := &Report{Resolution: p.Resolution, Wakes: wakes, Stats: core.ReadStats()}
	for _, w := range wakes {
		lat := w.Latency()
		if lat > r.MaxLatency {
			r.MaxLatency = lat
		}
		if lat > p.Resolution || lat < 0 {
			r.Late = append(r.Late, w)
		}
	}
	return r, err
}
