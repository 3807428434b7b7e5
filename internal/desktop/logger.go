package desktop

import (
	"go.uber.org/zap"
)

// wailsLogger routes the webview runtime's log output to zap.
type wailsLogger struct {
	logger *zap.Logger
}

func newWailsLogger(logger *zap.Logger) *wailsLogger {
	return &wailsLogger{logger: logger.Named("wails").WithOptions(zap.AddCallerSkip(1))}
}

func (l *wailsLogger) Print(message string)   { l.logger.Info(message) }
func (l *wailsLogger) Trace(message string)   { l.logger.Debug(message) }
func (l *wailsLogger) Debug(message string)   { l.logger.Debug(message) }
func (l *wailsLogger) Info(message string)    { l.logger.Info(message) }
func (l *wailsLogger) Warning(message string) { l.logger.Warn(message) }
func (l *wailsLogger) Error(message string)   { l.logger.Error(message) }

// Fatal is logged at error level; the runtime decides whether to exit.
func (l *wailsLogger) Fatal(message string) { l.logger.Error(message) }
