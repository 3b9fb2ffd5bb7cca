package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Never call it from HandleAlarm or with the interrupt mask held.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// StatusLine formats stats as a single "[DELAY]" line of key=value pairs.
// The host monitor parses this format.
func StatusLine(s Stats) string {
	return "[DELAY] sweeps=" + utoa(s.Sweeps) +
		" wakes=" + utoa(s.Wakes) +
		" live=" + itoa(s.Live) +
		" peak=" + itoa(s.Peak) +
		" slots=" + itoa(s.Capacity) +
		" exhausted=" + utoa(s.Exhausted)
}
