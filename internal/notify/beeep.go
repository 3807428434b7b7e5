package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Beeep sends notifications through github.com/gen2brain/beeep:
// toast notifications on Windows, the notification center on macOS and
// D-Bus on Linux. Click callbacks are not supported.
type Beeep struct {
	logger    *zap.Logger
	clickOnce sync.Once
}

// NewBeeep creates a beeep notifier.
func NewBeeep(logger *zap.Logger) *Beeep {
	return &Beeep{logger: logger}
}

// Send sends n. Critical notifications use beeep.Alert, which is more
// prominent on platforms that distinguish it.
func (b *Beeep) Send(n Notification) error {
	if n.OnClick != nil {
		b.clickOnce.Do(func() {
			b.logger.Debug("Notification click callbacks are not supported by the beeep backend")
		})
	}

	if n.Urgency == UrgencyCritical {
		return beeep.Alert(n.Title, n.Body, n.Icon)
	}
	return beeep.Notify(n.Title, n.Body, n.Icon)
}
