package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const appName = "kitty-panel"

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFor picks the syntax from the file extension. Anything that is not
// .yaml or .yml is read as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/kitty-panel/config.toml
//  2. ~/.config/kitty-panel/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
// The returned path is empty when no file was found.
func Load() (*Config, string, error) {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFromFile(p)
			return cfg, p, err
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, "", cfg.Validate()
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads configuration in the given format on top of the defaults,
// applies env overrides and validates the result.
func Decode(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logFile := filepath.Join(xdgCacheHome(home), appName, "panel.log")

	fast := ProbeConfig{Enabled: true, Interval: D(time.Second)}
	slow := ProbeConfig{Enabled: true, Interval: D(5 * time.Second)}

	return &Config{
		General: GeneralConfig{
			LogLevel:     "info",
			LogFile:      logFile,
			ProbeTimeout: D(10 * time.Second),
		},
		Display: DisplayConfig{
			Refresh:      D(time.Second),
			BarWidth:     205,
			ColorProfile: "auto",
			Logo: LogoConfig{
				Backend: "icat",
				Size:    25,
			},
		},
		Panel: PanelConfig{
			Prime:        []string{"weather", "calendar", "battery", "media", "location", "camera"},
			PrimeTimeout: D(3 * time.Second),
		},
		Probes: ProbesConfig{
			Colors:     fast,
			Wifi:       WifiConfig{ProbeConfig: fast, Interface: "wlan0"},
			Volume:     fast,
			Brightness: fast,
			Bluetooth:  fast,
			Battery:    BatteryConfig{ProbeConfig: slow, LowThreshold: 20},
			Camera:     CameraConfig{ProbeConfig: slow, DeviceDir: "/dev"},
			Location:   LocationConfig{ProbeConfig: slow, Process: "geoclue"},
			Media: MediaConfig{
				ProbeConfig: slow,
				ScreenShareMatch: []string{
					"xdph-streaming", "portal", "=gsr-default_output",
					"game capture", "OBS", "Screen", "Capture",
				},
			},
			Workspace: fast,
			Weather: WeatherConfig{
				ProbeConfig: ProbeConfig{Enabled: true, Interval: D(4 * time.Hour)},
				URL:         "https://wttr.in/",
				UserAgent:   "curl/8.5.0",
			},
			Calendar: ProbeConfig{Enabled: true, Interval: D(time.Hour)},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KPANEL_LOGO"); v != "" {
		cfg.Display.Logo.Backend = v
	}
	if v := os.Getenv("KPANEL_WEATHER_URL"); v != "" {
		cfg.Probes.Weather.URL = v
	}
	if v := os.Getenv("KPANEL_WIFI_IFACE"); v != "" {
		cfg.Probes.Wifi.Interface = v
	}
	if v := os.Getenv("KPANEL_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// SearchPaths returns the ordered list of config file paths to try.
func SearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
