// Package serial opens the USB CDC port the firmware prints its status on
package serial

import (
	"io"
	"time"
)

// Port is the receive side of a serial port. The firmware console only
// prints, so nothing is written back.
type Port interface {
	io.ReadCloser
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores it, a UART bridge does not)
	Baud int

	// Read timeout (0 = blocking)
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration used by the firmware's USB console
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 500 * time.Millisecond,
	}
}
