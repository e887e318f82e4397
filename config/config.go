package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"stopwatch/core"
)

// Config is the board configuration shared by the simulator and the
// Raspberry Pi target.
type Config struct {
	// Timer is the compare timer feeding the tick engine.
	Timer TimerConfig `yaml:"timer"`
	// Intervals are the foreground periods and debounce windows.
	Intervals IntervalConfig `yaml:"intervals"`
	// Start is the register contents loaded at boot.
	Start StartConfig `yaml:"start"`
	// Pins maps every control and output to a GPIO line (BCM numbering on the Pi).
	Pins PinConfig `yaml:"pins"`
	// Display selects the render sink.
	Display DisplayConfig `yaml:"display"`
	// LogLevel is the host logger level.
	LogLevel string `yaml:"log_level"`
}

// TimerConfig mirrors core.TimerConfig.
type TimerConfig struct {
	ClockHz   uint32 `yaml:"clock_hz"`
	Prescaler uint32 `yaml:"prescaler"`
	Compare   uint32 `yaml:"compare"`
}

// IntervalConfig holds periods in microseconds.
type IntervalConfig struct {
	PollUS           uint32 `yaml:"poll_us"`
	RenderUS         uint32 `yaml:"render_us"`
	DebounceUS       uint32 `yaml:"debounce_us"`
	RepeatDelayUS    uint32 `yaml:"repeat_delay_us"`
	RepeatIntervalUS uint32 `yaml:"repeat_interval_us"`
	EdgeLockoutUS    uint32 `yaml:"edge_lockout_us"`
}

// StartConfig is the boot time and direction.
type StartConfig struct {
	// Time is "HH:MM:SS".
	Time string `yaml:"time"`
	// Mode is "up" or "down".
	Mode string `yaml:"mode"`
}

// EdgePin is an edge-triggered input.
type EdgePin struct {
	Pin  uint32 `yaml:"pin"`
	Edge string `yaml:"edge"` // "falling" or "rising"
}

// PinConfig assigns GPIO lines.
type PinConfig struct {
	Reset  EdgePin `yaml:"reset"`
	Pause  EdgePin `yaml:"pause"`
	Resume EdgePin `yaml:"resume"`

	HoursUp     uint32 `yaml:"hours_up"`
	HoursDown   uint32 `yaml:"hours_down"`
	MinutesUp   uint32 `yaml:"minutes_up"`
	MinutesDown uint32 `yaml:"minutes_down"`
	SecondsUp   uint32 `yaml:"seconds_up"`
	SecondsDown uint32 `yaml:"seconds_down"`
	ModeToggle  uint32 `yaml:"mode_toggle"`

	CountUpLED   uint32 `yaml:"count_up_led"`
	CountDownLED uint32 `yaml:"count_down_led"`
	Buzzer       uint32 `yaml:"buzzer"`
}

// DisplayConfig selects and parameterises the render sink.
type DisplayConfig struct {
	// Type is one of DisplayTerminal, DisplaySerial, DisplayOLED.
	Type string `yaml:"type"`
	// SerialDevice and Baud configure DisplaySerial.
	SerialDevice string `yaml:"serial_device,omitempty"`
	Baud         int    `yaml:"baud,omitempty"`
	// I2CBus and I2CAddress configure DisplayOLED.
	I2CBus     int   `yaml:"i2c_bus,omitempty"`
	I2CAddress uint8 `yaml:"i2c_address,omitempty"`
}

// Display types
const (
	DisplayTerminal = "terminal"
	DisplaySerial   = "serial"
	DisplayOLED     = "oled"
)

const (
	// DefaultConfigFilename is the default filename for board settings.
	DefaultConfigFilename = "stopwatch.yaml"

	// DefaultBaud is the serial display baud rate.
	DefaultBaud = 115200

	// DefaultOLEDAddress is the SO1602/AQM1602 style character OLED address.
	DefaultOLEDAddress = 0x3c

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	errConfigIsNotSet     = errors.New("configuration is not set")
	errUnknownDisplay     = errors.New("unknown display type")
	errSerialDevice       = errors.New("serial display requires serial_device")
	errUnknownMode        = errors.New("start mode must be \"up\" or \"down\"")
	errUnknownEdge        = errors.New("edge must be \"falling\" or \"rising\"")
	errDuplicatePin       = errors.New("pin assigned twice")
	errMalformedStartTime = errors.New("start time must be HH:MM:SS")
)

// Load reads the configuration from path, fills in defaults and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in missing values and checks the result. The timer must
// divide to exactly one tick per second.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if err := cfg.Settings().Validate(); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}

	if _, _, err := cfg.StartState(); err != nil {
		return err
	}

	if _, err := cfg.PinMap(); err != nil {
		return err
	}

	switch cfg.Display.Type {
	case DisplayTerminal, DisplayOLED:
	case DisplaySerial:
		if cfg.Display.SerialDevice == "" {
			return errSerialDevice
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownDisplay, cfg.Display.Type)
	}

	return nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Timer == (TimerConfig{}) {
		cfg.Timer = defaults.Timer
	}

	iv := &cfg.Intervals
	if iv.PollUS == 0 {
		iv.PollUS = defaults.Intervals.PollUS
	}
	if iv.RenderUS == 0 {
		iv.RenderUS = defaults.Intervals.RenderUS
	}
	if iv.DebounceUS == 0 {
		iv.DebounceUS = defaults.Intervals.DebounceUS
	}
	if iv.RepeatDelayUS == 0 {
		iv.RepeatDelayUS = defaults.Intervals.RepeatDelayUS
	}
	if iv.RepeatIntervalUS == 0 {
		iv.RepeatIntervalUS = defaults.Intervals.RepeatIntervalUS
	}
	if iv.EdgeLockoutUS == 0 {
		iv.EdgeLockoutUS = defaults.Intervals.EdgeLockoutUS
	}

	if cfg.Start.Time == "" {
		cfg.Start.Time = defaults.Start.Time
	}
	if cfg.Start.Mode == "" {
		cfg.Start.Mode = defaults.Start.Mode
	}

	// An all-zero pin block means none was given
	if cfg.Pins == (PinConfig{}) {
		cfg.Pins = defaults.Pins
	}
	for _, ep := range []*EdgePin{&cfg.Pins.Reset, &cfg.Pins.Pause, &cfg.Pins.Resume} {
		ep.Edge = strings.ToLower(strings.TrimSpace(ep.Edge))
	}
	if cfg.Pins.Reset.Edge == "" {
		cfg.Pins.Reset.Edge = defaults.Pins.Reset.Edge
	}
	if cfg.Pins.Pause.Edge == "" {
		cfg.Pins.Pause.Edge = defaults.Pins.Pause.Edge
	}
	if cfg.Pins.Resume.Edge == "" {
		cfg.Pins.Resume.Edge = defaults.Pins.Resume.Edge
	}

	cfg.Display.Type = strings.ToLower(strings.TrimSpace(cfg.Display.Type))
	if cfg.Display.Type == "" {
		cfg.Display.Type = defaults.Display.Type
	}
	if cfg.Display.Baud == 0 {
		cfg.Display.Baud = DefaultBaud
	}
	if cfg.Display.I2CBus == 0 {
		cfg.Display.I2CBus = 1
	}
	if cfg.Display.I2CAddress == 0 {
		cfg.Display.I2CAddress = DefaultOLEDAddress
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}

// Default returns the configuration for a Raspberry Pi wired with the
// controls on BCM lines and a 1MHz clock.
func Default() *Config {
	settings := core.DefaultSettings()

	return &Config{
		Timer: TimerConfig{
			ClockHz:   settings.Timer.ClockHz,
			Prescaler: settings.Timer.Prescaler,
			Compare:   settings.Timer.Compare,
		},
		Intervals: IntervalConfig{
			PollUS:           settings.PollIntervalUS,
			RenderUS:         settings.RenderIntervalUS,
			DebounceUS:       settings.DebounceUS,
			RepeatDelayUS:    settings.RepeatDelayUS,
			RepeatIntervalUS: settings.RepeatIntervalUS,
			EdgeLockoutUS:    settings.EdgeLockoutUS,
		},
		Start: StartConfig{
			Time: "00:00:00",
			Mode: core.CountUp.String(),
		},
		Pins: PinConfig{
			Reset:  EdgePin{Pin: 17, Edge: "falling"},
			Pause:  EdgePin{Pin: 27, Edge: "rising"},
			Resume: EdgePin{Pin: 22, Edge: "falling"},

			HoursUp:     5,
			HoursDown:   6,
			MinutesUp:   13,
			MinutesDown: 19,
			SecondsUp:   26,
			SecondsDown: 21,
			ModeToggle:  20,

			CountUpLED:   23,
			CountDownLED: 24,
			Buzzer:       18,
		},
		Display: DisplayConfig{
			Type:       DisplayTerminal,
			Baud:       DefaultBaud,
			I2CBus:     1,
			I2CAddress: DefaultOLEDAddress,
		},
		LogLevel: "info",
	}
}

// Settings converts the timing sections to core settings
func (c *Config) Settings() core.Settings {
	return core.Settings{
		Timer: core.TimerConfig{
			ClockHz:   c.Timer.ClockHz,
			Prescaler: c.Timer.Prescaler,
			Compare:   c.Timer.Compare,
		},
		PollIntervalUS:   c.Intervals.PollUS,
		RenderIntervalUS: c.Intervals.RenderUS,
		DebounceUS:       c.Intervals.DebounceUS,
		RepeatDelayUS:    c.Intervals.RepeatDelayUS,
		RepeatIntervalUS: c.Intervals.RepeatIntervalUS,
		EdgeLockoutUS:    c.Intervals.EdgeLockoutUS,
	}
}

// StartState parses the boot time and mode
func (c *Config) StartState() (core.TimeValue, core.Mode, error) {
	t, err := ParseTime(c.Start.Time)
	if err != nil {
		return core.TimeValue{}, core.CountUp, err
	}

	switch strings.ToLower(strings.TrimSpace(c.Start.Mode)) {
	case "up":
		return t, core.CountUp, nil
	case "down":
		return t, core.CountDown, nil
	default:
		return core.TimeValue{}, core.CountUp, fmt.Errorf("%w, got %q", errUnknownMode, c.Start.Mode)
	}
}

// PinMap converts the pin section to a core pin map. Every line may be
// used only once.
func (c *Config) PinMap() (core.PinMap, error) {
	var pm core.PinMap
	p := c.Pins

	var err error
	if pm.Reset, err = controlPin(p.Reset); err != nil {
		return pm, fmt.Errorf("reset: %w", err)
	}
	if pm.Pause, err = controlPin(p.Pause); err != nil {
		return pm, fmt.Errorf("pause: %w", err)
	}
	if pm.Resume, err = controlPin(p.Resume); err != nil {
		return pm, fmt.Errorf("resume: %w", err)
	}

	pm.Controls[core.HoursUp] = core.GPIOPin(p.HoursUp)
	pm.Controls[core.HoursDown] = core.GPIOPin(p.HoursDown)
	pm.Controls[core.MinutesUp] = core.GPIOPin(p.MinutesUp)
	pm.Controls[core.MinutesDown] = core.GPIOPin(p.MinutesDown)
	pm.Controls[core.SecondsUp] = core.GPIOPin(p.SecondsUp)
	pm.Controls[core.SecondsDown] = core.GPIOPin(p.SecondsDown)
	pm.Controls[core.ModeToggle] = core.GPIOPin(p.ModeToggle)

	pm.CountUpLED = core.GPIOPin(p.CountUpLED)
	pm.CountDownLED = core.GPIOPin(p.CountDownLED)
	pm.Buzzer = core.GPIOPin(p.Buzzer)

	seen := make(map[core.GPIOPin]string)
	claim := func(pin core.GPIOPin, name string) error {
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("%w: %d used by %s and %s", errDuplicatePin, pin, other, name)
		}
		seen[pin] = name
		return nil
	}

	if err := claim(pm.Reset.Pin, "reset"); err != nil {
		return pm, err
	}
	if err := claim(pm.Pause.Pin, "pause"); err != nil {
		return pm, err
	}
	if err := claim(pm.Resume.Pin, "resume"); err != nil {
		return pm, err
	}
	for i, pin := range pm.Controls {
		if err := claim(pin, core.Control(i).String()); err != nil {
			return pm, err
		}
	}
	if err := claim(pm.CountUpLED, "count_up_led"); err != nil {
		return pm, err
	}
	if err := claim(pm.CountDownLED, "count_down_led"); err != nil {
		return pm, err
	}
	if err := claim(pm.Buzzer, "buzzer"); err != nil {
		return pm, err
	}

	return pm, nil
}

func controlPin(ep EdgePin) (core.ControlPin, error) {
	cp := core.ControlPin{Pin: core.GPIOPin(ep.Pin), PullUp: true}
	switch ep.Edge {
	case "falling":
		cp.Edge = core.EdgeFalling
	case "rising":
		cp.Edge = core.EdgeRising
	default:
		return cp, fmt.Errorf("%w, got %q", errUnknownEdge, ep.Edge)
	}
	return cp, nil
}

// ParseTime parses "HH:MM:SS" into a register value
func ParseTime(s string) (core.TimeValue, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return core.TimeValue{}, fmt.Errorf("%w, got %q", errMalformedStartTime, s)
	}

	var fields [3]uint8
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return core.TimeValue{}, fmt.Errorf("%w, got %q: %w", errMalformedStartTime, s, err)
		}
		fields[i] = uint8(n)
	}

	t := core.TimeValue{Hours: fields[0], Minutes: fields[1], Seconds: fields[2]}
	if !t.Valid() {
		return core.TimeValue{}, fmt.Errorf("%w: %q", core.ErrInvalidTime, s)
	}
	return t, nil
}
