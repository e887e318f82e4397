package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stopwatch/host/sim"
	"stopwatch/internal/version"
)

var (
	// opts collects the flag values for the simulator run.
	opts sim.Options

	// rootCmd runs the stopwatch on a simulated board.
	rootCmd = &cobra.Command{
		Use:   "stopwatch-sim",
		Short: "Run the stopwatch firmware core on a simulated board.",
		Long: `Runs the stopwatch on an in-memory GPIO bank driven by the host clock.

Keys pulse the reset (r), pause (p) and resume (c) inputs or hold the
adjustment controls: H/h hours, M/n minutes, S/s seconds, m mode, q quits.
Adjustments only apply while paused. The display is drawn on the terminal,
or sent line by line to a serial terminal with --serial.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return sim.Run(ctx, &opts)
		},
	}
)

// Execute runs the stopwatch-sim CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to board configuration file (built-in defaults when empty)")
	flags.StringVarP(&opts.LogLevel, "log-level", "l", "", "log level: debug, info, warn, error")
	flags.StringVarP(&opts.SerialDevice, "serial", "s", "", "render on a serial terminal at this device")
	flags.IntVarP(&opts.Baud, "baud", "b", 0, "serial display baud rate")
	flags.Uint32Var(&opts.Speed, "speed", 1, "clock speed multiplier")
	flags.StringVar(&opts.TTY, "tty", "", "keyboard terminal device")
}
