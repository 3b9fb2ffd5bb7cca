package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picodelay/core"
)

const blinkScenario = `
resolution: 10ms
slots: 4
limit: 10s
tasks:
  - name: blink
    delays: [500ms]
    repeat: 4
  - name: sensor
    delays: [100ms, 33ms]
    repeat: 5
  - delays: [25ms]
`

func TestParseScenarioDefaults(t *testing.T) {
	p, err := ParseScenario([]byte("tasks:\n  - delays: [1s]\n"))
	require.NoError(t, err)

	assert.Equal(t, time.Millisecond, p.Resolution)
	assert.Equal(t, core.DefaultSlotCount, p.Slots)
	assert.Equal(t, time.Minute, p.Limit)
	require.Len(t, p.Tasks, 1)
	assert.Equal(t, "task0", p.Tasks[0].Name)
	assert.Equal(t, 1, p.Tasks[0].Repeat)
	assert.Equal(t, []time.Duration{time.Second}, p.Tasks[0].Delays)
}

func TestParseScenarioErrors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "tasks: [",
		"no tasks":       "resolution: 1ms\n",
		"bad duration":   "tasks:\n  - delays: [soon]\n",
		"negative delay": "tasks:\n  - delays: [-1s]\n",
		"bad resolution": "resolution: fast\ntasks:\n  - delays: [1s]\n",
		"no delays":      "tasks:\n  - name: idle\n",
		"bad slots":      "slots: -2\ntasks:\n  - delays: [1s]\n",
		"bad repeat":     "tasks:\n  - delays: [1s]\n    repeat: -1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestRunScenario(t *testing.T) {
	p, err := ParseScenario([]byte(blinkScenario))
	require.NoError(t, err)

	r, err := Run(p, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, r.OK(), "late wakes: %+v", r.Late)
	assert.Len(t, r.Wakes, 4+10+1)
	assert.LessOrEqual(t, r.MaxLatency, 10*time.Millisecond)
	assert.Equal(t, 0, r.Stats.Live)
	assert.Equal(t, 4, r.Stats.Capacity)
	assert.Equal(t, 3, r.Stats.Peak)
	assert.Equal(t, uint32(len(r.Wakes)), r.Stats.Wakes)
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(blinkScenario), 0o644))

	p, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, p.Tasks, 3)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p, err := LoadScenario(path)
			require.NoError(t, err)

			r, err := Run(p, zerolog.Nop())
			require.NoError(t, err)
			assert.True(t, r.OK(), "late wakes: %+v", r.Late)
			assert.LessOrEqual(t, r.Stats.Peak, p.Slots)
		})
	}
}

func TestParseScenarioResolutionRange(t *testing.T) {
	tests := map[string]error{
		"0s":    core.ErrResolutionTooFine,
		"500ns": core.ErrResolutionTooFine,
		"2000h": core.ErrResolutionTooCoarse,
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseScenario([]byte("resolution: " + raw + "\ntasks:\n  - delays: [1s]\n"))
			require.ErrorIs(t, err, want)
		})
	}

	p, err := ParseScenario([]byte("resolution: 1us\ntasks:\n  - delays: [1s]\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Microsecond, p.Resolution)
}
