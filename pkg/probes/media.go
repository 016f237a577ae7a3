package probes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultScreenShareMatch is the built-in screen-share allowlist. An entry
// matches a media.name containing it; an entry starting with '=' must equal
// the name exactly.
var DefaultScreenShareMatch = []string{
	"xdph-streaming",
	"portal",
	"=gsr-default_output",
	"game capture",
	"OBS",
	"Screen",
	"Capture",
}

const pwNodeType = "PipeWire:Interface:Node"

// PWNode is the subset of a pw-dump object the media probe reads.
type PWNode struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	State string `json:"state"`
	Info  *struct {
		State string         `json:"state"`
		Props map[string]any `json:"props"`
	} `json:"info"`
}

// Prop returns a string property, or "" when it is missing or not a string.
func (n PWNode) Prop(key string) string {
	if n.Info == nil {
		return ""
	}
	s, _ := n.Info.Props[key].(string)
	return s
}

// Running reports whether the node or its info is in the running state.
func (n PWNode) Running() bool {
	return n.State == "running" || (n.Info != nil && n.Info.State == "running")
}

// IsNode reports whether the object is a PipeWire node.
func (n PWNode) IsNode() bool {
	return n.Type == pwNodeType
}

// ParseDump decodes pw-dump output.
func ParseDump(data []byte) ([]PWNode, error) {
	var nodes []PWNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("decode pw-dump: %w", err)
	}
	return nodes, nil
}

// ScreenShares returns the deduplicated names of running video capture
// nodes whose media.name matches the allowlist.
func ScreenShares(nodes []PWNode, allow []string) []string {
	var apps []string
	for _, n := range nodes {
		if !n.IsNode() || !n.Running() {
			continue
		}
		class := n.Prop("media.class")
		if class != "Stream/Input/Video" && class != "Video/Source" {
			continue
		}
		if !matchesAny(n.Prop("media.name"), allow) {
			continue
		}
		apps = append(apps, firstNonEmpty(n.Prop("media.name"), n.Prop("application.name"), "Screen Share"))
	}
	return dedupe(apps)
}

// Microphone returns the deduplicated names of running audio capture
// streams, and whether any capture (stream or source) is running at all.
func Microphone(nodes []PWNode) (apps []string, active bool) {
	for _, n := range nodes {
		if !n.IsNode() || !n.Running() {
			continue
		}
		switch n.Prop("media.class") {
		case "Stream/Input/Audio":
			apps = append(apps, firstNonEmpty(n.Prop("node.name"), n.Prop("application.name"), "unknown"))
			active = true
		case "Audio/Source", "Audio/Source/Virtual":
			active = true
		}
	}
	return dedupe(apps), active
}

func matchesAny(name string, allow []string) bool {
	for _, entry := range allow {
		if exact, ok := strings.CutPrefix(entry, "="); ok {
			if name == exact {
				return true
			}
			continue
		}
		if entry != "" && strings.Contains(name, entry) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Media derives screen-share and microphone activity from one pw-dump per
// cycle.
type Media struct {
	run      sysexec.Runner
	interval time.Duration
	match    atomic.Pointer[[]string]
}

// NewMedia creates the media probe. A nil match uses DefaultScreenShareMatch.
func NewMedia(run sysexec.Runner, match []string, interval time.Duration) *Media {
	m := &Media{run: run, interval: interval}
	m.SetScreenShareMatch(match)
	return m
}

func (m *Media) Name() string { return "media" }
func (m *Media) Interval() time.Duration { return m.interval }

// SetScreenShareMatch replaces the allowlist. It is safe to call while the
// probe is polling.
func (m *Media) SetScreenShareMatch(match []string) {
	if match == nil {
		match = DefaultScreenShareMatch
	}
	list := slices.Clone(match)
	m.match.Store(&list)
}

// ScreenShareMatch returns the current allowlist.
func (m *Media) ScreenShareMatch() []string {
	return slices.Clone(*m.match.Load())
}

// Poll fails hard when pw-dump cannot be read so both fields keep their
// previous values.
func (m *Media) Poll(ctx context.Context) (probe.Report, error) {
	out, err := m.run.Run(ctx, "pw-dump")
	if err != nil {
		return nil, fmt.Errorf("pw-dump: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return nil, errors.New("pw-dump returned nothing")
	}
	nodes, err := ParseDump([]byte(out))
	if err != nil {
		return nil, err
	}
	return MediaReport(nodes, *m.match.Load()), nil
}

// MediaReport builds the screen-share and microphone results for nodes.
func MediaReport(nodes []PWNode, match []string) probe.Report {
	report := probe.Report{}

	if shares := ScreenShares(nodes, match); len(shares) > 0 {
		report[state.FieldScreenShare] = probe.Text(strings.Join(shares, joinSep))
	} else {
		report[state.FieldScreenShare] = probe.None()
	}

	apps, active := Microphone(nodes)
	switch {
	case len(apps) > 0:
		report[state.FieldMicrophone] = probe.Text(strings.Join(apps, joinSep))
	case active:
		report[state.FieldMicrophone] = probe.Text("system")
	default:
		report[state.FieldMicrophone] = probe.None()
	}
	return report
}
