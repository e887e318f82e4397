//go:build linux

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stianeikeland/go-rpio/v4"
	"go.uber.org/zap/zapcore"

	"stopwatch/config"
	"stopwatch/core"
	"stopwatch/host/serial"
	"stopwatch/host/sim"
	"stopwatch/internal/logger"
	"stopwatch/internal/version"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "stopwatch-pi",
		Short: "Run the stopwatch on a Raspberry Pi.",
		Long: `Runs the stopwatch with its controls, LEDs and buzzer on the Pi GPIO header
and the time on a 16x2 I2C character OLED, a serial terminal or stdout.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return run(ctx)
		},
	}
)

func main() {
	version.AttachCobraVersionCommand(rootCmd)

	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to board configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "pi")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)
	core.SetDebugWriter(logger.CoreWriter(logger.Logger()))
	core.SetDebugEnabled(level == zapcore.DebugLevel)

	start, mode, err := cfg.StartState()
	if err != nil {
		return err
	}
	pins, err := cfg.PinMap()
	if err != nil {
		return err
	}

	if err := rpio.Open(); err != nil {
		return fmt.Errorf("open gpio: %w", err)
	}
	defer rpio.Close()

	gpio := &RPIOGPIODriver{}
	core.SetGPIODriver(gpio)
	if err := pins.ConfigurePins(); err != nil {
		return fmt.Errorf("configure pins: %w", err)
	}
	defer func() {
		gpio.Release()
		// Leave the buzzer and LEDs off
		_ = core.GPIOOutputs{Pins: &pins}.ApplyOutputs(core.Outputs{})
	}()

	display, closeDisplay, err := openDisplay(cfg)
	if err != nil {
		return err
	}
	defer closeDisplay()

	settings := cfg.Settings()
	sw, err := core.NewStopwatch(settings, core.Board{
		Display:  display,
		Outputs:  &sim.LoggingOutputs{Next: core.GPIOOutputs{Pins: &pins}, Ctx: ctx},
		Controls: core.GPIOControls{Pins: &pins},
	})
	if err != nil {
		return fmt.Errorf("build stopwatch: %w", err)
	}
	if err := sw.Preset(start, mode); err != nil {
		return err
	}

	gpio.Watch(pins.Reset, core.EventReset)
	gpio.Watch(pins.Pause, core.EventPause)
	gpio.Watch(pins.Resume, core.EventResume)

	clock := sim.NewWallClock(settings.Timer, 1)
	logger.InfoKV(ctx, "stopwatch running",
		"start", start.String(),
		"mode", mode.String(),
		"display", cfg.Display.Type,
	)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stats := sw.Stats()
			logger.InfoKV(ctx, "stopwatch stopped",
				"time", sw.Snapshot().Time.String(),
				"ticks", stats.Ticks,
				"controls", stats.Controls,
				"render_errors", stats.RenderErrors,
			)
			return nil
		case <-ticker.C:
			now := clock.Now()
			gpio.PollEdges(func(e core.Event) {
				if !sw.Signal(e, now) {
					logger.Debugf(ctx, "%s edge dropped", e)
				}
			})
			sw.Step(now)
		}
	}
}

func openDisplay(cfg *config.Config) (core.Display, func(), error) {
	switch cfg.Display.Type {
	case config.DisplayOLED:
		d, err := NewOLEDDisplay(cfg.Display.I2CAddress, cfg.Display.I2CBus)
		if err != nil {
			return nil, nil, err
		}
		return d, func() { _ = d.Close() }, nil
	case config.DisplaySerial:
		sc := serial.DefaultConfig(cfg.Display.SerialDevice)
		sc.Baud = cfg.Display.Baud
		port, err := serial.Open(sc)
		if err != nil {
			return nil, nil, err
		}
		return serial.NewLineDisplay(port), func() { _ = port.Close() }, nil
	default:
		return sim.NewTerminalDisplay(os.Stdout), func() {}, nil
	}
}
