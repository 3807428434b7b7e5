//go:build !linux

package notify

import (
	"errors"

	"go.uber.org/zap"
)

func newPlatform(appName string, logger *zap.Logger) (Notifier, error) {
	return nil, errors.New("dbus notifications are only available on linux")
}
