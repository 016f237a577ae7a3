package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Config is the complete kitty-panel configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Panel   PanelConfig   `toml:"panel" yaml:"panel"`
	Probes  ProbesConfig  `toml:"probes" yaml:"probes"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel     string   `toml:"log_level" yaml:"log_level"`
	LogFile      string   `toml:"log_file" yaml:"log_file"`
	ProbeTimeout Duration `toml:"probe_timeout" yaml:"probe_timeout"`
}

// DisplayConfig controls rendering.
type DisplayConfig struct {
	Refresh      Duration   `toml:"refresh" yaml:"refresh"`
	BarWidth     int        `toml:"bar_width" yaml:"bar_width"`
	ColorProfile string     `toml:"color_profile" yaml:"color_profile"`
	Logo         LogoConfig `toml:"logo" yaml:"logo"`
}

// LogoConfig selects how the panel logo is drawn.
type LogoConfig struct {
	// Backend is "icat", "kitty", "none" or "auto" (icat inside kitty,
	// none elsewhere).
	Backend string `toml:"backend" yaml:"backend"`
	// Size is the logo edge in terminal cells.
	Size int `toml:"size" yaml:"size"`
}

// PanelConfig controls the startup prime pass.
type PanelConfig struct {
	Prime        []string `toml:"prime" yaml:"prime"`
	PrimeTimeout Duration `toml:"prime_timeout" yaml:"prime_timeout"`
}

// ProbeConfig is shared by every probe.
type ProbeConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

type WifiConfig struct {
	ProbeConfig `yaml:",inline"`
	Interface   string `toml:"interface" yaml:"interface"`
}

type BatteryConfig struct {
	ProbeConfig    `yaml:",inline"`
	LowThreshold   int      `toml:"low_threshold" yaml:"low_threshold"`
	NotifyCooldown Duration `toml:"notify_cooldown" yaml:"notify_cooldown"`
}

type CameraConfig struct {
	ProbeConfig `yaml:",inline"`
	DeviceDir   string `toml:"device_dir" yaml:"device_dir"`
}

type LocationConfig struct {
	ProbeConfig `yaml:",inline"`
	Process     string `toml:"process" yaml:"process"`
}

type MediaConfig struct {
	ProbeConfig      `yaml:",inline"`
	ScreenShareMatch []string `toml:"screenshare_match" yaml:"screenshare_match"`
}

type WeatherConfig struct {
	ProbeConfig `yaml:",inline"`
	URL         string `toml:"url" yaml:"url"`
	UserAgent   string `toml:"user_agent" yaml:"user_agent"`
}

// ProbesConfig has one section per probe.
type ProbesConfig struct {
	Colors     ProbeConfig    `toml:"colors" yaml:"colors"`
	Wifi       WifiConfig     `toml:"wifi" yaml:"wifi"`
	Volume     ProbeConfig    `toml:"volume" yaml:"volume"`
	Brightness ProbeConfig    `toml:"brightness" yaml:"brightness"`
	Bluetooth  ProbeConfig    `toml:"bluetooth" yaml:"bluetooth"`
	Battery    BatteryConfig  `toml:"battery" yaml:"battery"`
	Camera     CameraConfig   `toml:"camera" yaml:"camera"`
	Location   LocationConfig `toml:"location" yaml:"location"`
	Media      MediaConfig    `toml:"media" yaml:"media"`
	Workspace  ProbeConfig    `toml:"workspace" yaml:"workspace"`
	Weather    WeatherConfig  `toml:"weather" yaml:"weather"`
	Calendar   ProbeConfig    `toml:"calendar" yaml:"calendar"`
}

// ProbeSetting pairs a probe name with its common settings.
type ProbeSetting struct {
	Name string
	ProbeConfig
}

// All returns the common settings of every probe in display order.
func (p ProbesConfig) All() []ProbeSetting {
	return []ProbeSetting{
		{"colors", p.Colors},
		{"wifi", p.Wifi.ProbeConfig},
		{"volume", p.Volume},
		{"brightness", p.Brightness},
		{"bluetooth", p.Bluetooth},
		{"battery", p.Battery.ProbeConfig},
		{"camera", p.Camera.ProbeConfig},
		{"location", p.Location.ProbeConfig},
		{"media", p.Media.ProbeConfig},
		{"workspace", p.Workspace},
		{"weather", p.Weather.ProbeConfig},
		{"calendar", p.Calendar},
	}
}

// Lookup returns the settings of the named probe.
func (p ProbesConfig) Lookup(name string) (ProbeSetting, bool) {
	for _, s := range p.All() {
		if s.Name == name {
			return s, true
		}
	}
	return ProbeSetting{}, false
}

// Accepted enumerations.
var (
	LogoBackends  = []string{"auto", "icat", "kitty", "none"}
	ColorProfiles = []string{"auto", "truecolor", "ansi256", "ansi", "ascii"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !slices.Contains(LogLevels, strings.ToLower(c.General.LogLevel)) {
		bad("general.log_level %q is not one of %v", c.General.LogLevel, LogLevels)
	}
	if c.General.ProbeTimeout.Duration < 0 {
		bad("general.probe_timeout must not be negative")
	}
	if c.Display.Refresh.Duration <= 0 {
		bad("display.refresh must be positive")
	}
	if c.Display.BarWidth <= 0 {
		bad("display.bar_width must be positive, got %d", c.Display.BarWidth)
	}
	if !slices.Contains(ColorProfiles, c.Display.ColorProfile) {
		bad("display.color_profile %q is not one of %v", c.Display.ColorProfile, ColorProfiles)
	}
	if !slices.Contains(LogoBackends, c.Display.Logo.Backend) {
		bad("display.logo.backend %q is not one of %v", c.Display.Logo.Backend, LogoBackends)
	}
	if c.Display.Logo.Size <= 0 {
		bad("display.logo.size must be positive, got %d", c.Display.Logo.Size)
	}

	for _, s := range c.Probes.All() {
		if s.Enabled && s.Interval.Duration <= 0 {
			bad("probes.%s.interval must be positive", s.Name)
		}
	}
	for _, name := range c.Panel.Prime {
		if _, ok := c.Probes.Lookup(name); !ok {
			bad("panel.prime: unknown probe %q", name)
		}
	}
	if c.Probes.Wifi.Enabled && c.Probes.Wifi.Interface == "" {
		bad("probes.wifi.interface must be set")
	}
	if c.Probes.Location.Enabled && c.Probes.Location.Process == "" {
		bad("probes.location.process must be set")
	}

	return errors.Join(errs...)
}
