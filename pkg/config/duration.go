// Package config loads the kitty-panel configuration from TOML or YAML,
// applies environment overrides and watches the file for changes.
package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration with string parsing for config files.
// Supports standard Go duration strings: "1s", "5s", "1h", "4h", etc.
type Duration struct {
	time.Duration
}

// D is shorthand for building a Duration literal.
func D(d time.Duration) Duration {
	return Duration{d}
}

// UnmarshalText implements encoding.TextUnmarshaler. Both the TOML and the
// YAML decoder use it for scalar values.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
