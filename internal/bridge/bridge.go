// Package bridge is the capability boundary between the sandboxed frontend and
// the privileged shell. Bridge is the only value bound to the webview: every
// exported method is one operation or channel of the IPC contract, and nothing
// else is reachable from the frontend.
package bridge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/wallboard-shell/internal/ipc"
	"github.com/username/wallboard-shell/internal/lifecycle"
	"go.uber.org/zap"
)

// Lifecycle is the part of the lifecycle machine the boundary needs.
type Lifecycle interface {
	Admit() (release func(), err error)
	Hide(cause lifecycle.Cause) bool
	Show(cause lifecycle.Cause) bool
}

// FileHandler implements openFile and saveFile.
type FileHandler interface {
	Open() ipc.OpenFileResult
	Save(content, fileName string) ipc.SaveFileResult
}

// NotificationHandler implements showNotification and notifyAgentEvent.
type NotificationHandler interface {
	Show(title, body string, urgent bool) ipc.Result
	AgentEvent(agentName, eventType string, details map[string]any) ipc.Result
}

// Bridge exposes the fixed operation set to the frontend. Do not add exported
// methods: the webview binds all of them.
type Bridge struct {
	lifecycle     Lifecycle
	files         FileHandler
	notifications NotificationHandler
	logger        *zap.Logger
}

// New creates the boundary.
func New(lc Lifecycle, files FileHandler, notifications NotificationHandler, logger *zap.Logger) *Bridge {
	return &Bridge{
		lifecycle:     lc,
		files:         files,
		notifications: notifications,
		logger:        logger,
	}
}

// OpenFile shows an open dialog and returns the chosen file's content.
func (b *Bridge) OpenFile() ipc.OpenFileResult {
	return invoke(b, ipc.OpOpenFile, nil, openFileResult, b.files.Open)
}

// SaveFile shows a save dialog and writes content to the chosen path.
func (b *Bridge) SaveFile(content, fileName string) ipc.SaveFileResult {
	payload := ipc.SaveFilePayload{Content: content, FileName: fileName}
	return invoke(b, ipc.OpSaveFile, payload, saveFileResult, func() ipc.SaveFileResult {
		return b.files.Save(payload.Content, payload.FileName)
	}, zap.String("file_name", fileName), zap.Int("bytes", len(content)))
}

// ShowNotification dispatches an OS notification.
func (b *Bridge) ShowNotification(title, body string, urgent bool) ipc.Result {
	payload := ipc.NotificationPayload{Title: title, Body: body, Urgent: urgent}
	return invoke(b, ipc.OpShowNotification, payload, result, func() ipc.Result {
		return b.notifications.Show(payload.Title, payload.Body, payload.Urgent)
	}, zap.String("title", title), zap.Bool("urgent", urgent))
}

// NotifyAgentEvent dispatches the localized notification for an agent event.
func (b *Bridge) NotifyAgentEvent(agentName, eventType string, details map[string]any) ipc.Result {
	payload := ipc.AgentEventPayload{AgentName: agentName, EventType: eventType, Details: details}
	return invoke(b, ipc.OpNotifyAgentEvent, payload, result, func() ipc.Result {
		return b.notifications.AgentEvent(payload.AgentName, payload.EventType, payload.Details)
	}, zap.String("agent", agentName), zap.String("event_type", eventType))
}

// HideToTray hides the window; the process keeps running in the tray.
func (b *Bridge) HideToTray() {
	if !b.lifecycle.Hide(lifecycle.CauseHideToTray) {
		b.logger.Debug("Ignored message", zap.String("channel", string(ipc.ChannelHideToTray)))
	}
}

// ShowApp shows and focuses the window.
func (b *Bridge) ShowApp() {
	if !b.lifecycle.Show(lifecycle.CauseShowApp) {
		b.logger.Debug("Ignored message", zap.String("channel", string(ipc.ChannelShowApp)))
	}
}

func openFileResult(r ipc.Result) ipc.OpenFileResult { return ipc.OpenFileResult{Result: r} }
func saveFileResult(r ipc.Result) ipc.SaveFileResult { return ipc.SaveFileResult{Result: r} }
func result(r ipc.Result) ipc.Result                 { return r }

// invoke runs one privileged operation: it admits the call through the
// lifecycle gate, recovers a panicking handler into an internal failure and
// logs the outcome. It always returns exactly one result.
func invoke[T any](b *Bridge, op ipc.Operation, payload any, wrap func(ipc.Result) T, handle func() T, fields ...zap.Field) (res T) {
	req := ipc.Request{ID: uuid.NewString(), Operation: op, Payload: payload}
	logger := b.logger.With(zap.String("request_id", req.ID), zap.String("operation", string(req.Operation)))

	release, err := b.lifecycle.Admit()
	if err != nil {
		logger.Warn("Operation rejected", zap.Error(err))
		return wrap(ipc.Failure(err))
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Operation panicked", zap.Any("panic", r), zap.Stack("stack"))
			res = wrap(ipc.Failure(fmt.Errorf("internal error: %v", r)))
		}
	}()

	start := time.Now()
	res = handle()

	logger.Info("Operation completed", append(fields, zap.Duration("duration", time.Since(start)))...)
	return res
}
