package panel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Health is the snapshot a running panel publishes for `kitty-panel status`.
type Health struct {
	PID     int           `json:"pid"`
	Mode    Mode          `json:"mode"`
	Started time.Time     `json:"started"`
	Updated time.Time     `json:"updated"`
	Probes  []ProbeHealth `json:"probes"`
}

// ProbeHealth is one probe's runtime status.
type ProbeHealth struct {
	Name       string        `json:"name"`
	Healthy    bool          `json:"healthy"`
	LastRun    time.Time     `json:"last_run"`
	LastError  string        `json:"last_error,omitempty"`
	RunCount   int64         `json:"run_count"`
	ErrorCount int64         `json:"error_count"`
	Latency    time.Duration `json:"latency"`
}

// NewProbeHealth converts registry statuses.
func NewProbeHealth(statuses []probe.Status) []ProbeHealth {
	out := make([]ProbeHealth, 0, len(statuses))
	for _, s := range statuses {
		h := ProbeHealth{
			Name:       s.Name,
			Healthy:    s.Healthy,
			LastRun:    s.LastRun,
			RunCount:   s.RunCount,
			ErrorCount: s.ErrorCount,
			Latency:    s.LastLatency,
		}
		if s.LastError != nil {
			h.LastError = s.LastError.Error()
		}
		out = append(out, h)
	}
	return out
}

// WriteHealth writes h to path atomically.
func WriteHealth(path string, h *Health) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create health directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal health: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write health file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename health file: %w", err)
	}
	return nil
}

// ReadHealth reads the file written by WriteHealth.
func ReadHealth(path string) (*Health, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read health file: %w", err)
	}
	var h Health
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse health file: %w", err)
	}
	return &h, nil
}
