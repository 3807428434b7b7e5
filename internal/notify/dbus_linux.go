//go:build linux

package notify

import (
	"fmt"

	dbusnotify "github.com/esiqveland/notify"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// defaultAction is the action key servers invoke when the notification body is clicked.
const defaultAction = "default"

// DBus sends notifications over the org.freedesktop.Notifications interface.
type DBus struct {
	conn     *dbus.Conn
	notifier dbusnotify.Notifier
	appName  string
	clicks   *clickRegistry
	logger   *zap.Logger
}

// NewDBus connects to the session bus.
func NewDBus(appName string, logger *zap.Logger) (*DBus, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to authenticate on session bus: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to greet session bus: %w", err)
	}

	d := &DBus{
		conn:    conn,
		appName: appName,
		clicks:  newClickRegistry(),
		logger:  logger,
	}

	notifier, err := dbusnotify.New(conn,
		dbusnotify.WithOnAction(d.onAction),
		dbusnotify.WithOnClosed(d.onClosed),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create dbus notifier: %w", err)
	}
	d.notifier = notifier

	return d, nil
}

func newPlatform(appName string, logger *zap.Logger) (Notifier, error) {
	return NewDBus(appName, logger)
}

// Send sends n. Critical notifications never expire.
func (d *DBus) Send(n Notification) error {
	msg := dbusnotify.Notification{
		AppName:       d.appName,
		AppIcon:       n.Icon,
		Summary:       n.Title,
		Body:          n.Body,
		Hints:         map[string]dbus.Variant{},
		ExpireTimeout: dbusnotify.ExpireTimeoutSetByNotificationServer,
	}

	if n.OnClick != nil {
		msg.Actions = []dbusnotify.Action{{Key: defaultAction, Label: "Open"}}
	}

	if n.Urgency == UrgencyCritical {
		msg.SetUrgency(dbusnotify.UrgencyCritical)
		msg.ExpireTimeout = dbusnotify.ExpireTimeoutNever
	} else {
		msg.SetUrgency(dbusnotify.UrgencyNormal)
	}

	id, err := d.notifier.SendNotification(msg)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	d.clicks.add(id, n.OnClick)
	return nil
}

// Close releases the bus connection.
func (d *DBus) Close() error {
	if err := d.notifier.Close(); err != nil {
		d.logger.Warn("Failed to close dbus notifier", zap.Error(err))
	}
	return d.conn.Close()
}

func (d *DBus) onAction(s *dbusnotify.ActionInvokedSignal) {
	if s.ActionKey != defaultAction {
		return
	}
	if d.clicks.fire(s.ID) {
		d.logger.Debug("Notification clicked", zap.Uint32("id", s.ID))
	}
}

func (d *DBus) onClosed(s *dbusnotify.NotificationClosedSignal) {
	d.clicks.forget(s.ID)
}
