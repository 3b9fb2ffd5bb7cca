package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"picodelay/host/logging"
	"picodelay/host/monitor"
	"picodelay/host/serial"
)

var (
	device      string
	baud        int
	readTimeout time.Duration
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "delaymon",
	Short: "Follow the delay scheduler status printed by the firmware",
	Long: `delaymon opens the firmware's serial console and logs its "[DELAY]" status
lines as structured events. It warns when wake slots run out and reports an
error when the alarm stops sweeping.

Examples:
  delaymon --device /dev/ttyACM0
  delaymon --device COM3 --log-level debug`,
	SilenceUsage: true,
	RunE:         runMonitor,
}

func init() {
	rootCmd.Flags().StringVarP(&device, "device", "d", "/dev/ttyACM0", "Serial device path")
	rootCmd.Flags().IntVar(&baud, "baud", 115200, "Baud rate (ignored for USB CDC)")
	rootCmd.Flags().DurationVar(&readTimeout, "read-timeout", 500*time.Millisecond, "Serial read timeout")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug shows all firmware output)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	log := logging.NewConsole(logLevel, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud
	cfg.ReadTimeout = readTimeout

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Info().
		Str("device", cfg.Device).
		Int("baud", cfg.Baud).
		Dur("read_timeout", cfg.ReadTimeout).
		Msg("connected")

	m := monitor.New(log)
	m.Follow = true
	err = m.Run(ctx, port)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", device, err)
	}

	if st, ok := m.Last(); ok {
		log.Info().Uint64("sweeps", st.Sweeps).Uint64("wakes", st.Wakes).Int("stalls", m.Stalls()).Msg("disconnected")
	}
	return nil
}
