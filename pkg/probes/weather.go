package probes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
)

const (
	// DefaultWeatherURL serves a plain-text forecast to curl-like clients.
	DefaultWeatherURL       = "https://wttr.in/"
	DefaultWeatherUserAgent = "curl/8.5.0"

	maxWeatherBody = 1 << 20
)

// WeatherOptions configures the weather probe.
type WeatherOptions struct {
	URL       string
	UserAgent string
	Interval  time.Duration
	Client    *http.Client
}

// Weather fetches the current conditions block of a wttr.in style report.
// It remembers the validators of the last response and issues conditional
// requests, keeping the last text on 304.
type Weather struct {
	opts WeatherOptions

	mu           sync.Mutex
	etag         string
	lastModified string
	last         string
}

// NewWeather creates the weather probe.
func NewWeather(opts WeatherOptions) *Weather {
	if opts.URL == "" {
		opts.URL = DefaultWeatherURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultWeatherUserAgent
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Weather{opts: opts}
}

func (w *Weather) Name() string { return state.FieldWeather }
func (w *Weather) Interval() time.Duration { return w.opts.Interval }

func (w *Weather) Poll(ctx context.Context) (probe.Report, error) {
	text, err := w.fetch(ctx)
	if err != nil {
		return probe.Single(state.FieldWeather, probe.Fail("N/A", err)), nil
	}
	return probe.Single(state.FieldWeather, probe.Text(text)), nil
}

func (w *Weather) fetch(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.opts.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/*")
	req.Header.Set("User-Agent", w.opts.UserAgent)
	if w.last != "" {
		if w.etag != "" {
			req.Header.Set("If-None-Match", w.etag)
		}
		if w.lastModified != "" {
			req.Header.Set("If-Modified-Since", w.lastModified)
		}
	}

	resp, err := w.opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && w.last != "" {
		return w.last, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch weather: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWeatherBody))
	if err != nil {
		return "", fmt.Errorf("read weather: %w", err)
	}
	text, ok := ParseWeather(string(body))
	if !ok {
		return "", errors.New("weather: response too short")
	}

	w.etag = resp.Header.Get("ETag")
	w.lastModified = resp.Header.Get("Last-Modified")
	w.last = text
	return text, nil
}

// ParseWeather keeps lines 2 through 6 of the report, trimmed. Reports with
// fewer than three lines carry no conditions block.
func ParseWeather(body string) (string, bool) {
	all := lines(body)
	if len(all) < 3 {
		return "", false
	}
	end := min(7, len(all))
	block := make([]string, 0, end-2)
	for _, line := range all[2:end] {
		block = append(block, strings.TrimSpace(line))
	}
	return strings.Join(block, "\n"), true
}
