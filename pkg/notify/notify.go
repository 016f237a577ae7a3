// Package notify sends desktop notifications through notify-send.
package notify

import (
	"context"
	"fmt"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// Urgency is the notify-send urgency level.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Sender delivers a desktop notification.
type Sender interface {
	Notify(ctx context.Context, urgency Urgency, summary string) error
}

// Desktop sends notifications with notify-send.
type Desktop struct {
	run sysexec.Runner
}

// NewDesktop creates a notify-send backed Sender.
func NewDesktop(run sysexec.Runner) *Desktop {
	return &Desktop{run: run}
}

// Notify runs `notify-send -u <urgency> <summary>`.
func (d *Desktop) Notify(ctx context.Context, urgency Urgency, summary string) error {
	if urgency == "" {
		urgency = UrgencyNormal
	}
	if _, err := d.run.Run(ctx, "notify-send", "-u", string(urgency), summary); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
