package bridge

import (
	"time"

	"github.com/username/wallboard-shell/internal/ipc"
	"go.uber.org/zap"
)

// Emitter delivers an event to the frontend.
type Emitter interface {
	Emit(event string, data ...any)
}

// Events publishes shell → frontend events. It is not bound to the webview.
type Events struct {
	emitter Emitter
	now     func() time.Time
	logger  *zap.Logger
}

// NewEvents creates the event publisher.
func NewEvents(emitter Emitter, logger *zap.Logger) *Events {
	return &Events{
		emitter: emitter,
		now:     time.Now,
		logger:  logger,
	}
}

// StatusChanged tells the frontend the agent status was changed from the tray.
func (e *Events) StatusChanged(status string) ipc.StatusChangeIntent {
	intent := ipc.StatusChangeIntent{
		NewStatus: status,
		Timestamp: e.now().UTC().Format(time.RFC3339),
	}

	e.emitter.Emit(string(ipc.EventStatusChangedFromTray), intent)
	e.logger.Info("Status change sent to frontend", zap.String("status", status))

	return intent
}
