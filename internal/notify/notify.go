// Package notify delivers desktop notifications. The DBus backend (Linux)
// supports urgency and click actions; the beeep backend is the portable
// fallback.
package notify

import (
	"fmt"

	"go.uber.org/zap"
)

// Urgency is the urgency class of a notification.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	// UrgencyCritical notifications are not dismissed automatically.
	UrgencyCritical
)

func (u Urgency) String() string {
	if u == UrgencyCritical {
		return "critical"
	}
	return "normal"
}

// Notification is a single transient desktop notification.
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Icon    string
	// OnClick is called when the user clicks the notification, if the
	// backend supports it.
	OnClick func()
}

// Notifier sends notifications. Send returns once the OS layer accepted the
// notification, not when it is dismissed.
type Notifier interface {
	Send(n Notification) error
}

// Backend names.
const (
	BackendAuto  = "auto"
	BackendBeeep = "beeep"
	BackendDBus  = "dbus"
)

// Config selects and configures the notification backend.
type Config struct {
	Backend string
	AppName string
}

// New creates the configured notifier. In auto mode the platform backend is
// tried first and beeep is used when it is not available.
func New(cfg Config, logger *zap.Logger) (Notifier, error) {
	switch cfg.Backend {
	case BackendBeeep:
		return NewBeeep(logger), nil

	case BackendDBus:
		n, err := newPlatform(cfg.AppName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize dbus notifications: %w", err)
		}
		return n, nil

	case BackendAuto, "":
		n, err := newPlatform(cfg.AppName, logger)
		if err != nil {
			logger.Info("Platform notifications unavailable, using beeep", zap.Error(err))
			return NewBeeep(logger), nil
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown notification backend: %s", cfg.Backend)
	}
}
