package panel

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/notify"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probes"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// Deps are the outside-world handles the probes are built on.
type Deps struct {
	Runner sysexec.Runner
	// Notifier may be nil to silence battery warnings.
	Notifier notify.Sender
	Client   *http.Client
	// Today styles the current day in the calendar.
	Today  lipgloss.Style
	Logger *slog.Logger
}

// Built is the probe set for one configuration.
type Built struct {
	Registry *probe.Registry
	// Disabled lists the state fields no probe will ever write.
	Disabled []string
	// Media and Battery are nil when their probe is disabled.
	Media   *probes.Media
	Battery *probes.Battery
}

// Fields returns the state fields a probe writes.
func Fields(probeName string) []string {
	if probeName == "media" {
		return []string{state.FieldScreenShare, state.FieldMicrophone}
	}
	return []string{probeName}
}

// Build creates and registers every enabled probe.
func Build(cfg *config.Config, deps Deps) (*Built, error) {
	if deps.Runner == nil {
		deps.Runner = sysexec.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	b := &Built{Registry: probe.NewRegistry()}
	namer := probes.NewProcNames(deps.Runner)
	for _, s := range cfg.Probes.All() {
		if !s.Enabled {
			b.Disabled = append(b.Disabled, Fields(s.Name)...)
			continue
		}
		p, err := b.newProbe(cfg.Probes, s.Name, s.Interval.Duration, deps, namer)
		if err != nil {
			return nil, err
		}
		if err := b.Registry.Register(p); err != nil {
			return nil, fmt.Errorf("register %s: %w", s.Name, err)
		}
	}
	return b, nil
}

func (b *Built) newProbe(pc config.ProbesConfig, name string, every time.Duration, deps Deps, namer probes.ProcessNamer) (probe.Probe, error) {
	run := deps.Runner
	switch name {
	case "colors":
		return probes.NewColors(run, every), nil
	case "wifi":
		return probes.NewWifi(run, pc.Wifi.Interface, every), nil
	case "volume":
		return probes.NewVolume(run, every), nil
	case "brightness":
		return probes.NewBrightness(run, every), nil
	case "bluetooth":
		return probes.NewBluetooth(run, every), nil
	case "battery":
		b.Battery = probes.NewBattery(run, deps.Notifier, probes.BatteryOptions{
			Interval:       every,
			LowThreshold:   pc.Battery.LowThreshold,
			NotifyCooldown: pc.Battery.NotifyCooldown.Duration,
			Logger:         deps.Logger,
		})
		return b.Battery, nil
	case "camera":
		return probes.NewCamera(run, namer, pc.Camera.DeviceDir, every), nil
	case "location":
		return probes.NewLocation(run, namer, pc.Location.Process, every), nil
	case "media":
		b.Media = probes.NewMedia(run, pc.Media.ScreenShareMatch, every)
		return b.Media, nil
	case "workspace":
		return probes.NewWorkspace(run, every), nil
	case "weather":
		return probes.NewWeather(probes.WeatherOptions{
			URL:       pc.Weather.URL,
			UserAgent: pc.Weather.UserAgent,
			Interval:  every,
			Client:    deps.Client,
		}), nil
	case "calendar":
		return probes.NewCalendar(deps.Today, every), nil
	default:
		return nil, fmt.Errorf("unknown probe %q", name)
	}
}
