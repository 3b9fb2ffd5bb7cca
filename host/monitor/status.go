// Package monitor follows the firmware's serial console and turns its
// "[DELAY]" lines into structured log events.
package monitor

import (
	"errors"
	"strconv"
	"strings"
)

// Prefix marks lines written by the delay scheduler
const Prefix = "[DELAY]"

// ErrNotStatus is returned when a line carries no scheduler status
var ErrNotStatus = errors.New("monitor: not a status line")

// Line is one parsed console line
type Line struct {
	Kind   string            // "status", "init", ... empty for plain firmware output
	Fields map[string]uint64 // numeric key=value pairs
	Text   string            // the raw line
}

// Status mirrors core.Stats as printed by core.StatusLine
type Status struct {
	Sweeps    uint64
	Wakes     uint64
	Exhausted uint64
	Live      uint64
	Peak      uint64
	Slots     uint64
}

// Parse splits a console line. Lines without the prefix are plain output.
// Tokens without '=' name the kind; a prefixed line with none is a status.
func Parse(raw string) Line {
	text := strings.TrimRight(raw, "\r\n")
	l := Line{Text: text}

	rest, ok := strings.CutPrefix(strings.TrimSpace(text), Prefix)
	if !ok {
		return l
	}

	l.Fields = make(map[string]uint64)
	for _, tok := range strings.Fields(rest) {
		key, val, found := strings.Cut(tok, "=")
		if !found {
			if l.Kind == "" {
				l.Kind = tok
			}
			continue
		}
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			continue
		}
		l.Fields[key] = n
	}
	if l.Kind == "" {
		l.Kind = "status"
	}
	return l
}

// Status extracts the scheduler counters from a status line
func (l Line) Status() (Status, error) {
	if l.Kind != "status" {
		return Status{}, ErrNotStatus
	}
	if _, ok := l.Fields["sweeps"]; !ok {
		return Status{}, ErrNotStatus
	}
	return Status{
		Sweeps:    l.Fields["sweeps"],
		Wakes:     l.Fields["wakes"],
		Exhausted: l.Fields["exhausted"],
		Live:      l.Fields["live"],
		Peak:      l.Fields["peak"],
		Slots:     l.Fields["slots"],
	}, nil
}
