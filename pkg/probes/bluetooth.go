package probes

import (
	"context"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// systemctl status exits 3 for a unit that is loaded but not active.
const unitInactiveExit = 3

// Bluetooth reports the service state, the adapter power and the connected
// devices, in that order. A stage only runs if the previous one passed.
type Bluetooth struct {
	run      sysexec.Runner
	interval time.Duration
}

// NewBluetooth creates the bluetooth probe.
func NewBluetooth(run sysexec.Runner, interval time.Duration) *Bluetooth {
	return &Bluetooth{run: run, interval: interval}
}

func (b *Bluetooth) Name() string { return state.FieldBluetooth }
func (b *Bluetooth) Interval() time.Duration { return b.interval }

func (b *Bluetooth) Poll(ctx context.Context) (probe.Report, error) {
	return probe.Single(state.FieldBluetooth, b.check(ctx)), nil
}

func (b *Bluetooth) check(ctx context.Context) probe.Result {
	status, err := b.run.Run(ctx, "systemctl", "status", "bluetooth")
	if err != nil {
		if sysexec.ExitCode(err) == unitInactiveExit {
			return probe.Text("Disabled")
		}
		return probe.Fail("Disabled", err)
	}
	if !ServiceRunning(status) {
		return probe.Text("Disabled")
	}

	show, err := b.run.Run(ctx, "bluetoothctl", "show")
	if err != nil {
		return probe.Fail("Error", err)
	}
	if !AdapterPowered(show) {
		return probe.Text("Off")
	}

	devices, err := b.run.Run(ctx, "bluetoothctl", "devices", "Connected")
	if err != nil {
		return probe.Fail("Error", err)
	}
	names := ConnectedDevices(devices)
	if len(names) == 0 {
		return probe.Text("Disconnected")
	}
	return probe.Text(strings.Join(names, joinSep))
}

// ServiceRunning reports whether systemctl status output has an Active line
// mentioning "running".
func ServiceRunning(out string) bool {
	for _, line := range lines(out) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Active:") && strings.Contains(line, "running") {
			return true
		}
	}
	return false
}

// AdapterPowered reports whether bluetoothctl show lists "Powered: yes".
func AdapterPowered(out string) bool {
	for _, line := range lines(out) {
		if strings.TrimSpace(line) == "Powered: yes" {
			return true
		}
	}
	return false
}

// ConnectedDevices returns the names from "Device <mac> <name>" lines.
func ConnectedDevices(out string) []string {
	var names []string
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "Device" {
			continue
		}
		names = append(names, strings.Join(fields[2:], " "))
	}
	return dedupe(names)
}
