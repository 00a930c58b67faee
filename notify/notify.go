// Package notify carries user-visible, fire-and-forget notifications.
// It mirrors the toast surface of the web UI: callers emit and move on,
// nothing blocks on the notice being seen.
package notify

import "github.com/rs/zerolog"

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notifier delivers a transient user-visible message.
type Notifier interface {
	Notify(kind Kind, message string)
}

// LogNotifier presents notifications on the structured log. Used by
// the CLI, and as the default sink when no UI is attached.
type LogNotifier struct {
	Logger zerolog.Logger
}

var _ Notifier = LogNotifier{}

func (n LogNotifier) Notify(kind Kind, message string) {
	var event *zerolog.Event
	switch kind {
	case KindWarning:
		event = n.Logger.Warn()
	case KindError:
		event = n.Logger.Error()
	default:
		event = n.Logger.Info()
	}
	event.Str("kind", string(kind)).Msg(message)
}
