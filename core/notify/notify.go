package notify

import (
	"context"
	"errors"
	"time"
)

// Kind distinguishes the alert families so receivers can route them.
type Kind string

const (
	KindDiscrepancy         Kind = "DISCREPANCY"
	KindActivityPaused      Kind = "ACTIVITY_PAUSED"
	KindReconciliationError Kind = "RECONCILIATION_ERROR"
)

// Severity is the urgency of a notification.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Message is one alert sent to the operators.
type Message struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Severity Severity  `json:"severity"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	ReportID string    `json:"report_id,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier delivers messages to a channel.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Multi sends every message to all of its notifiers. A failing channel does
// not stop the others; the errors are joined.
type Multi []Notifier

// Send implements Notifier.
func (m Multi) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
