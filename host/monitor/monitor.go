package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Monitor logs console lines and flags scheduler anomalies between
// consecutive status lines.
type Monitor struct {
	log zerolog.Logger

	// Follow keeps reading after io.EOF. Serial ports report a read
	// timeout as EOF, so a live port needs it.
	Follow bool

	last    Status
	hasLast bool
	stalls  int
}

// New creates a monitor logging to log
func New(log zerolog.Logger) *Monitor {
	return &Monitor{log: log}
}

// Last returns the most recent status seen
func (m *Monitor) Last() (Status, bool) {
	return m.last, m.hasLast
}

// Stalls returns how many status lines reported no new alarm sweeps
func (m *Monitor) Stalls() int {
	return m.stalls
}

// Run reads lines from r until ctx is done, r fails, or (without Follow) EOF
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	var pending []byte

	for ctx.Err() == nil {
		n, err := r.Read(buf)
		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			m.Handle(string(pending[:i]))
			pending = pending[i+1:]
		}

		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		if !m.Follow {
			if len(pending) > 0 {
				m.Handle(string(pending))
			}
			return nil
		}
	}
	return ctx.Err()
}

// Handle processes one console line
func (m *Monitor) Handle(raw string) {
	l := Parse(raw)
	switch l.Kind {
	case "":
		if l.Text != "" {
			m.log.Debug().Str("line", l.Text).Msg("firmware")
		}
	case "status":
		st, err := l.Status()
		if err != nil {
			m.log.Warn().Str("line", l.Text).Msg("malformed status line")
			return
		}
		m.status(st)
	default:
		e := m.log.Info().Str("kind", l.Kind)
		for k, v := range l.Fields {
			e = e.Uint64(k, v)
		}
		e.Msg("scheduler event")
	}
}

func (m *Monitor) status(st Status) {
	e := m.log.Info().
		Uint64("sweeps", st.Sweeps).
		Uint64("wakes", st.Wakes).
		Uint64("live", st.Live).
		Uint64("peak", st.Peak).
		Uint64("slots", st.Slots)

	if m.hasLast && st.Sweeps >= m.last.Sweeps {
		e = e.Uint64("sweeps_delta", st.Sweeps-m.last.Sweeps)
	}
	e.Msg("scheduler status")

	if m.hasLast {
		switch {
		case st.Sweeps < m.last.Sweeps:
			m.log.Warn().Msg("sweep counter went backwards, firmware restarted")
		case st.Sweeps == m.last.Sweeps:
			m.stalls++
			m.log.Error().Uint64("sweeps", st.Sweeps).Msg("alarm sweeps stalled")
		}
		if st.Exhausted > m.last.Exhausted {
			m.log.Warn().
				Uint64("rejected", st.Exhausted-m.last.Exhausted).
				Uint64("slots", st.Slots).
				Msg("wake slots exhausted")
		}
	}
	if st.Slots > 0 && st.Live == st.Slots {
		m.log.Warn().Uint64("slots", st.Slots).Msg("all wake slots in use")
	}

	m.last = st
	m.hasLast = true
}
