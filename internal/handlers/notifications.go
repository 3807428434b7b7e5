package handlers

import (
	"fmt"
	"strings"

	"github.com/username/wallboard-shell/internal/ipc"
	"github.com/username/wallboard-shell/internal/messages"
	"github.com/username/wallboard-shell/internal/notify"
	"go.uber.org/zap"
)

// Notifications implements showNotification and notifyAgentEvent. Clicking
// any notification it sends calls activate, which re-surfaces the window.
type Notifications struct {
	notifier notify.Notifier
	catalog  *messages.Catalog
	activate func()
	iconPath string
	logger   *zap.Logger
}

// NewNotifications creates the notification handlers.
func NewNotifications(notifier notify.Notifier, catalog *messages.Catalog, activate func(), iconPath string, logger *zap.Logger) *Notifications {
	return &Notifications{
		notifier: notifier,
		catalog:  catalog,
		activate: activate,
		iconPath: iconPath,
		logger:   logger,
	}
}

// Show dispatches a notification. Urgent notifications are critical and are
// not dismissed automatically.
func (n *Notifications) Show(title, body string, urgent bool) ipc.Result {
	if strings.TrimSpace(title) == "" {
		return ipc.Failure(fmt.Errorf("%w: title is required", ipc.ErrInvalidRequest))
	}

	urgency := notify.UrgencyNormal
	if urgent {
		urgency = notify.UrgencyCritical
	}

	err := n.notifier.Send(notify.Notification{
		Title:   title,
		Body:    body,
		Urgency: urgency,
		Icon:    n.iconPath,
		OnClick: n.onClick,
	})
	if err != nil {
		n.logger.Error("Failed to show notification", zap.String("title", title), zap.Error(err))
		return ipc.Failure(fmt.Errorf("%w: %v", ipc.ErrNotification, err))
	}

	n.logger.Info("Notification shown", zap.String("title", title), zap.Stringer("urgency", urgency))
	return ipc.OK()
}

// AgentEvent dispatches the localized message for an agent event. Delivery
// is best effort: failures are logged and the call still succeeds.
func (n *Notifications) AgentEvent(agentName, eventType string, details map[string]any) ipc.Result {
	body := n.catalog.AgentEvent(agentName, eventType, details)

	if !n.catalog.KnownAgentEvent(eventType) {
		n.logger.Debug("Unknown agent event type, using fallback message", zap.String("event_type", eventType))
	}

	err := n.notifier.Send(notify.Notification{
		Title:   n.catalog.AgentEventTitle,
		Body:    body,
		Urgency: notify.UrgencyNormal,
		Icon:    n.iconPath,
		OnClick: n.onClick,
	})
	if err != nil {
		n.logger.Warn("Failed to show agent event notification",
			zap.String("agent", agentName),
			zap.String("event_type", eventType),
			zap.Error(err))
	}

	return ipc.OK()
}

// Notice sends an informational notification on behalf of the shell itself
// (tray confirmations, the hide-to-tray notice). Failures are only logged.
func (n *Notifications) Notice(title, body string) {
	err := n.notifier.Send(notify.Notification{
		Title:   title,
		Body:    body,
		Urgency: notify.UrgencyNormal,
		Icon:    n.iconPath,
		OnClick: n.onClick,
	})
	if err != nil {
		n.logger.Warn("Failed to show notice", zap.String("title", title), zap.Error(err))
	}
}

func (n *Notifications) onClick() {
	n.logger.Debug("Notification clicked, showing window")
	if n.activate != nil {
		n.activate()
	}
}
