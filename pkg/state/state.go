// Package state holds the snapshot the renderer draws from. Every field lives
// in its own atomic cell and is owned by exactly one probe, so a write is a
// single pointer swap and a reader never observes a half-written value.
package state

import (
	"slices"
	"sync/atomic"
)

// Field names shared by the probes that write them and the renderers that
// read them.
const (
	FieldColors      = "colors"
	FieldWifi        = "wifi"
	FieldVolume      = "volume"
	FieldBrightness  = "brightness"
	FieldBluetooth   = "bluetooth"
	FieldBattery     = "battery"
	FieldCamera      = "camera"
	FieldLocation    = "location"
	FieldScreenShare = "screenshare"
	FieldMicrophone  = "microphone"
	FieldWorkspace   = "workspace"
	FieldWeather     = "weather"
	FieldCalendar    = "calendar"
)

// Fields lists every field the dashboard knows about.
var Fields = []string{
	FieldColors, FieldWifi, FieldVolume, FieldBrightness, FieldBluetooth,
	FieldBattery, FieldCamera, FieldLocation, FieldScreenShare,
	FieldMicrophone, FieldWorkspace, FieldWeather, FieldCalendar,
}

// PendingText is displayed for a field that has not been resolved yet.
const PendingText = "∙∙∙"

// Status is the lifecycle of a field value.
type Status uint8

const (
	// Pending means no poll has completed for the field yet.
	Pending Status = iota
	// Absent means the feature is inactive (no camera in use, no workspace data).
	Absent
	// Ready means Text or List holds a displayable value.
	Ready
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Absent:
		return "absent"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Value is the content of one field. Values are treated as immutable once
// stored; List is copied on the way in and on the way out.
type Value struct {
	Status Status
	Text   string
	List   []string
	// Failed marks a Ready value that is a probe's fallback text.
	Failed bool
}

// Text returns a Ready value holding s.
func Text(s string) Value {
	return Value{Status: Ready, Text: s}
}

// List returns a Ready value holding a copy of items.
func List(items ...string) Value {
	return Value{Status: Ready, List: slices.Clone(items)}
}

// Fallback returns a Ready value that carries a probe's failure text.
func Fallback(s string) Value {
	return Value{Status: Ready, Text: s, Failed: true}
}

// Inactive returns an Absent value.
func Inactive() Value {
	return Value{Status: Absent}
}

// Display returns the text shown for the value: the pending marker, the
// given inactive text, or the value's own text.
func (v Value) Display(inactive string) string {
	switch v.Status {
	case Pending:
		return PendingText
	case Absent:
		return inactive
	default:
		return v.Text
	}
}

// Equal reports whether two values would render identically.
func (v Value) Equal(o Value) bool {
	return v.Status == o.Status && v.Text == o.Text && v.Failed == o.Failed && slices.Equal(v.List, o.List)
}

// State is the shared field store. The set of fields is fixed at
// construction; only the cell contents change afterwards.
type State struct {
	cells map[string]*atomic.Pointer[Value]
}

// New creates a State with every given field Pending. With no arguments the
// full Fields list is used.
func New(fields ...string) *State {
	if len(fields) == 0 {
		fields = Fields
	}
	s := &State{cells: make(map[string]*atomic.Pointer[Value], len(fields))}
	for _, f := range fields {
		cell := new(atomic.Pointer[Value])
		cell.Store(&Value{Status: Pending})
		s.cells[f] = cell
	}
	return s
}

// Set replaces the value of field. It returns false when the field is not
// part of the state.
func (s *State) Set(field string, v Value) bool {
	cell, ok := s.cells[field]
	if !ok {
		return false
	}
	v.List = slices.Clone(v.List)
	cell.Store(&v)
	return true
}

// Get returns the current value of field. Unknown fields read as Absent.
func (s *State) Get(field string) Value {
	cell, ok := s.cells[field]
	if !ok {
		return Value{Status: Absent}
	}
	v := *cell.Load()
	v.List = slices.Clone(v.List)
	return v
}

// Snapshot copies every field. Each field is read atomically; fields are not
// read at one common instant, which matches the per-field ownership model.
func (s *State) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.cells))
	for name := range s.cells {
		snap[name] = s.Get(name)
	}
	return snap
}

// Snapshot is a point-in-time copy of the state handed to a renderer.
type Snapshot map[string]Value

// Get returns the value for field, Absent if missing.
func (s Snapshot) Get(field string) Value {
	v, ok := s[field]
	if !ok {
		return Value{Status: Absent}
	}
	return v
}

// Text returns the display text for field with the given inactive text.
func (s Snapshot) Text(field, inactive string) string {
	return s.Get(field).Display(inactive)
}
