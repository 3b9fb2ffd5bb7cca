package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusLine(t *testing.T) {
	l := Parse("[DELAY] sweeps=120 wakes=7 live=3 peak=5 slots=16 exhausted=1\r\n")
	assert.Equal(t, "status", l.Kind)

	st, err := l.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{Sweeps: 120, Wakes: 7, Exhausted: 1, Live: 3, Peak: 5, Slots: 16}, st)
}

func TestParseInitLine(t *testing.T) {
	l := Parse("[DELAY] init interval_us=10000 slots=8")
	assert.Equal(t, "init", l.Kind)
	assert.Equal(t, map[string]uint64{"interval_us": 10000, "slots": 8}, l.Fields)

	_, err := l.Status()
	assert.ErrorIs(t, err, ErrNotStatus)
}

func TestParsePlainLine(t *testing.T) {
	l := Parse("accel x=12 y=-3 z=981")
	assert.Empty(t, l.Kind)
	assert.Nil(t, l.Fields)
	assert.Equal(t, "accel x=12 y=-3 z=981", l.Text)
}

func TestParseSkipsNonNumericFields(t *testing.T) {
	l := Parse("[DELAY] sweeps=abc wakes=2")
	assert.Equal(t, map[string]uint64{"wakes": 2}, l.Fields)

	_, err := l.Status()
	assert.ErrorIs(t, err, ErrNotStatus)
}
