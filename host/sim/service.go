package sim

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"

	"stopwatch/config"
	"stopwatch/core"
	"stopwatch/host/serial"
	"stopwatch/internal/logger"
)

// Options controls a simulator session.
type Options struct {
	// ConfigPath is the board YAML file; empty uses the built-in defaults.
	ConfigPath string
	// LogLevel overrides the configured level when set.
	LogLevel string
	// SerialDevice renders on a serial terminal instead of stdout when set.
	SerialDevice string
	// Baud overrides the configured serial baud rate when non-zero.
	Baud int
	// Speed runs the clock this many times faster than real time.
	Speed uint32
	// TTY is the keyboard terminal; empty uses DefaultTTY.
	TTY string
	// Screen receives the terminal display; nil is stdout.
	Screen io.Writer
}

// Run loads the configuration, builds a stopwatch on a simulated board and
// runs it until ctx is done or quit is pressed.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sim")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.SerialDevice != "" {
		cfg.Display.Type = config.DisplaySerial
		cfg.Display.SerialDevice = opts.SerialDevice
	}
	if opts.Baud != 0 {
		cfg.Display.Baud = opts.Baud
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		logger.Warnf(ctx, "unknown log level %q, using %s", cfg.LogLevel, level)
	}
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

	gpio := NewSimGPIO()
	core.SetGPIODriver(gpio)
	if err := pins.ConfigurePins(); err != nil {
		return fmt.Errorf("configure pins: %w", err)
	}

	display, closeDisplay, err := openDisplay(ctx, cfg, opts.Screen)
	if err != nil {
		return err
	}
	defer closeDisplay()

	settings := cfg.Settings()
	sw, err := core.NewStopwatch(settings, core.Board{
		Display:  display,
		Outputs:  &LoggingOutputs{Next: core.GPIOOutputs{Pins: &pins}, Ctx: ctx},
		Controls: core.GPIOControls{Pins: &pins},
	})
	if err != nil {
		return fmt.Errorf("build stopwatch: %w", err)
	}
	if err := sw.Preset(start, mode); err != nil {
		return err
	}

	clock := NewWallClock(settings.Timer, opts.Speed)
	runner, err := NewRunner(sw, gpio, pins, clock, DefaultHoldUS)
	if err != nil {
		return fmt.Errorf("wire control inputs: %w", err)
	}

	var keys <-chan byte
	kb, err := OpenKeyboard(opts.TTY)
	if err != nil {
		logger.Warnf(ctx, "keyboard unavailable, running without controls: %v", err)
	} else {
		defer func() {
			if err := kb.Close(); err != nil {
				logger.Warnf(ctx, "restore terminal: %v", err)
			}
		}()
		keys = kb.Keys(ctx)
	}

	logger.InfoKV(ctx, "stopwatch running",
		"start", start.String(),
		"mode", mode.String(),
		"timer", settings.Timer.Describe(),
		"display", cfg.Display.Type,
		"speed", clock.speed,
	)
	logger.Infof(ctx, "keys: r reset, p pause, c resume, m mode, H/h hours, M/n minutes, S/s seconds, q quit")

	err = runner.Run(ctx, keys)

	stats := sw.Stats()
	logger.InfoKV(ctx, "stopwatch stopped",
		"time", sw.Snapshot().Time.String(),
		"ticks", stats.Ticks,
		"alarms", stats.Alarms,
		"controls", stats.Controls,
		"adjustments", stats.Adjustments,
		"render_errors", stats.RenderErrors,
		"edges_rejected", stats.EdgesRejected,
	)
	if core.IsDebugEnabled() {
		core.DumpEventRing()
	}
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, config.Validate(cfg)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return cfg, nil
}

func openDisplay(ctx context.Context, cfg *config.Config, screen io.Writer) (core.Display, func(), error) {
	if screen == nil {
		screen = os.Stdout
	}

	switch cfg.Display.Type {
	case config.DisplaySerial:
		sc := serial.DefaultConfig(cfg.Display.SerialDevice)
		sc.Baud = cfg.Display.Baud
		port, err := serial.Open(sc)
		if err != nil {
			return nil, nil, err
		}
		if err := port.Flush(); err != nil {
			logger.Warnf(ctx, "flush %s: %v", sc.Device, err)
		}
		closer := func() {
			if err := port.Close(); err != nil {
				logger.Warnf(ctx, "close %s: %v", sc.Device, err)
			}
		}
		return serial.NewLineDisplay(port), closer, nil
	case config.DisplayOLED:
		logger.Warnf(ctx, "no I2C bus in the simulator, using the terminal display")
	}

	return NewTerminalDisplay(screen), func() {}, nil
}
