package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"picodelay/host/logging"
	"picodelay/sim"
)

var (
	logLevel string
	jsonLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "delaysim",
	Short: "Replay delay scheduler scenarios against a virtual alarm",
	Long: `delaysim runs YAML scenarios through the firmware's delay scheduler on a
virtual timer. Every delay must resume within one resolution interval of its
deadline; the run fails otherwise.

Examples:
  delaysim run scenarios/blink.yaml
  delaysim run --log-level debug scenarios/blink.yaml
  delaysim validate scenarios/*.yaml`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario and report wake latencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.yaml>...",
	Short: "Check scenario files without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  validateScenarios,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Write JSON logs instead of console output")
	rootCmd.AddCommand(runCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	if jsonLogs {
		return logging.NewJSON(logLevel, os.Stderr)
	}
	return logging.NewConsole(logLevel, os.Stderr)
}

func runScenario(cmd *cobra.Command, args []string) error {
	log := newLogger()

	plan, err := sim.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log.Info().
		Str("scenario", args[0]).
		Dur("resolution", plan.Resolution).
		Int("slots", plan.Slots).
		Int("tasks", len(plan.Tasks)).
		Msg("starting simulation")

	report, err := sim.Run(plan, log)
	if err != nil && !errors.Is(err, sim.ErrTimeLimit) {
		return fmt.Errorf("simulation failed: %w", err)
	}

	for _, w := range report.Late {
		log.Error().
			Str("task", w.Task).
			Int("seq", w.Seq).
			Dur("deadline", w.Deadline.Duration()).
			Dur("latency", w.Latency()).
			Msg("delay resumed late")
	}
	log.Info().
		Int("wakes", len(report.Wakes)).
		Dur("max_latency", report.MaxLatency).
		Uint32("sweeps", report.Stats.Sweeps).
		Int("peak_slots", report.Stats.Peak).
		Uint32("exhausted", report.Stats.Exhausted).
		Msg("simulation finished")

	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d delays resumed more than %v late", len(report.Late), len(report.Wakes), report.Resolution)
	}
	return nil
}

func validateScenarios(cmd *cobra.Command, args []string) error {
	log := newLogger()

	failed := 0
	for _, path := range args {
		plan, err := sim.LoadScenario(path)
		if err != nil {
			failed++
			log.Error().Err(err).Str("scenario", path).Msg("invalid scenario")
			continue
		}
		log.Info().Str("scenario", path).Int("tasks", len(plan.Tasks)).Msg("ok")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios invalid", failed, len(args))
	}
	return nil
}
