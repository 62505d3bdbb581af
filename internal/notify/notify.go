// Package notify delivers outbound notifications (the daily task digest,
// mostly) to configured webhook endpoints.
package notify

import (
	"context"
	"strings"
)

// Notification is one outbound message.
type Notification struct {
	Title string
	Body  string
}

// text renders the notification as a single plain-text block.
func (n Notification) text() string {
	switch {
	case n.Title == "":
		return n.Body
	case n.Body == "":
		return n.Title
	}
	return n.Title + "\n" + n.Body
}

// Notifier sends notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	Name() string
}

// MultiNotifier sends notifications to multiple notifiers in turn.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a MultiNotifier from the given notifiers.
func NewMultiNotifier(ns ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: ns}
}

// Send dispatches the notification to all registered notifiers.
// Returns the first error encountered, but attempts all notifiers.
func (m *MultiNotifier) Send(ctx context.Context, n Notification) error {
	var firstErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Name returns the name of this notifier.
func (m *MultiNotifier) Name() string {
	names := make([]string, len(m.notifiers))
	for i, n := range m.notifiers {
		names[i] = n.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}
