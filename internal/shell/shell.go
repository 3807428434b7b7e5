// Package shell wires the desktop shell together and owns its lifetime: the
// lifecycle machine, the capability boundary, the tray and the webview.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/afero"
	"github.com/username/wallboard-shell/internal/bridge"
	"github.com/username/wallboard-shell/internal/config"
	"github.com/username/wallboard-shell/internal/desktop"
	"github.com/username/wallboard-shell/internal/handlers"
	"github.com/username/wallboard-shell/internal/lifecycle"
	"github.com/username/wallboard-shell/internal/messages"
	"github.com/username/wallboard-shell/internal/notify"
	"github.com/username/wallboard-shell/internal/tray"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// UI is the webview host.
type UI interface {
	Run(bind any, hooks desktop.Hooks) error
	Window() (lifecycle.Window, error)
	Dialogs() handlers.Dialogs
	Emit(event string, data ...any)
}

// TrayHost is a tray that runs on an external event loop.
type TrayHost interface {
	tray.Host
	Start(onReady func())
	Quit()
}

// Deps are the platform collaborators. Nil fields get the production
// implementation.
type Deps struct {
	UI       UI
	Tray     TrayHost
	Notifier notify.Notifier
	Fs       afero.Fs
}

// Shell is the root of the application.
type Shell struct {
	cfg    *config.Config
	logger *zap.Logger

	ui       UI
	host     TrayHost
	notifier notify.Notifier
	fs       afero.Fs

	catalog       *messages.Catalog
	machine       *lifecycle.Machine
	notifications *handlers.Notifications
	bridge        *bridge.Bridge
	events        *bridge.Events
	tray          *tray.Controller

	ctx    context.Context
	cancel context.CancelFunc

	shutdownOnce sync.Once
	shutdownErr  error

	mu      sync.Mutex
	trayErr error
}

// New builds the shell from configuration.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Shell, error) {
	catalog, err := messages.Load(cfg.GetLocale())
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.UI == nil {
		width, height := cfg.Window.GetWindowSize()
		deps.UI = desktop.New(desktop.Options{
			Title:       cfg.Window.Title,
			Width:       width,
			Height:      height,
			StartHidden: cfg.Window.StartHidden,
			UniqueID:    "wallboard-shell",
		}, logger.Named("desktop"))
	}
	if deps.Tray == nil {
		deps.Tray = tray.NewSystrayHost(logger.Named("tray"))
	}
	if deps.Notifier == nil {
		deps.Notifier, err = notify.New(notify.Config{
			Backend: cfg.Notifications.Backend,
			AppName: cfg.App.Name,
		}, logger.Named("notify"))
		if err != nil {
			return nil, fmt.Errorf("failed to create notifier: %w", err)
		}
	}

	s := &Shell{
		cfg:      cfg,
		logger:   logger,
		ui:       deps.UI,
		host:     deps.Tray,
		notifier: deps.Notifier,
		fs:       deps.Fs,
		catalog:  catalog,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.machine = lifecycle.NewMachine(s.ui.Window, logger.Named("lifecycle"))
	s.machine.OnTransition(func(tr lifecycle.Transition) {
		logger.Info("Window state changed",
			zap.Stringer("from", tr.From),
			zap.Stringer("to", tr.To),
			zap.String("cause", string(tr.Cause)))
	})

	s.notifications = handlers.NewNotifications(s.notifier, catalog, func() {
		s.machine.Show(lifecycle.CauseNotificationClick)
	}, cfg.Notifications.IconPath, logger.Named("notifications"))

	if cfg.Notifications.HideNotice {
		s.machine.OnFirstHide(func() {
			s.notifications.Notice(catalog.StillRunningTitle, catalog.StillRunningBody)
		})
	}

	files := handlers.NewFiles(s.ui.Dialogs(), s.fs, handlers.FilesConfig{
		OpenFilters:     fileFilters(cfg.Files.GetOpenFilters()),
		SaveFilters:     fileFilters(cfg.Files.GetSaveFilters()),
		DefaultFileName: cfg.Files.DefaultFileName,
		MaxOpenBytes:    cfg.Files.MaxOpenBytes,
	}, logger.Named("files"))

	s.bridge = bridge.New(s.machine, files, s.notifications, logger.Named("bridge"))
	s.events = bridge.NewEvents(s.ui, logger.Named("events"))

	s.tray = tray.NewController(s.host, s.machine, s.events, s.notifications, catalog, tray.Config{
		Icon:         tray.LoadIconOrDefault(s.fs, cfg.Tray.IconPath, logger.Named("tray")),
		TemplateIcon: cfg.Tray.TemplateIcon,
		Tooltip:      cfg.Tray.Tooltip,
		Statuses:     cfg.Tray.GetStatuses(),
	}, s.exit, logger.Named("tray"))

	return s, nil
}

// Run shows the window and blocks until the shell has shut down. It returns
// an error when startup failed.
func (s *Shell) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			s.logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
			s.exit()
		case <-s.ctx.Done():
		}
	}()

	runErr := s.ui.Run(s.bridge, desktop.Hooks{
		Startup:        s.start,
		BeforeClose:    s.machine.InterceptClose,
		SecondInstance: s.reactivate,
		Shutdown:       s.runtimeStopped,
	})

	err := multierr.Combine(runErr, s.Shutdown(), s.trayError())
	s.tray.Wait()

	if err != nil {
		return err
	}
	s.logger.Info("Shell stopped")
	return nil
}

// Machine returns the lifecycle machine.
func (s *Shell) Machine() *lifecycle.Machine {
	return s.machine
}

// Shutdown sets shutdown intent, waits for running operations for the grace
// period, destroys the window and removes the tray. Only the first call does
// anything; later calls return the same result.
func (s *Shell) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down", zap.Duration("grace", s.cfg.Shutdown.GetGrace()))

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Shutdown.GetGrace())
		defer cancel()

		var err error
		err = multierr.Append(err, s.machine.Quit(ctx))

		s.tray.Stop()
		s.host.Quit()

		if closer, ok := s.notifier.(io.Closer); ok {
			if cerr := closer.Close(); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("failed to close notifier: %w", cerr))
			}
		}

		s.cancel()
		s.shutdownErr = err
	})
	return s.shutdownErr
}

func (s *Shell) start() error {
	startWindow := s.machine.Start
	if s.cfg.Window.StartHidden {
		startWindow = s.machine.StartHidden
	}
	if err := startWindow(); err != nil {
		return fmt.Errorf("failed to start window: %w", err)
	}

	// onReady may run on another goroutine, after the webview loop is up
	s.host.Start(s.trayReady)

	s.logger.Info("Shell started", zap.String("locale", s.catalog.Locale))
	return nil
}

func (s *Shell) trayReady() {
	err := s.tray.Start(s.ctx)
	switch {
	case err == nil:
	case errors.Is(err, tray.ErrStopped):
		s.logger.Debug("Tray became ready after shutdown")
	default:
		s.logger.Error("Failed to start tray, shutting down", zap.Error(err))
		s.mu.Lock()
		s.trayErr = fmt.Errorf("failed to start tray: %w", err)
		s.mu.Unlock()
		s.exit()
	}
}

func (s *Shell) trayError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trayErr
}

func (s *Shell) exit() {
	if err := s.Shutdown(); err != nil {
		s.logger.Error("Shutdown finished with errors", zap.Error(err))
	}
}

func (s *Shell) reactivate() {
	if err := s.machine.Reactivate(); err != nil {
		s.logger.Error("Failed to reactivate window", zap.Error(err))
	}
}

// runtimeStopped is called when the webview runtime terminates, whether or
// not it was asked to.
func (s *Shell) runtimeStopped() {
	if !s.machine.ShuttingDown() {
		s.logger.Warn("Webview runtime stopped unexpectedly")
	}
}

func fileFilters(in []config.FileFilterConfig) []handlers.FileFilter {
	out := make([]handlers.FileFilter, 0, len(in))
	for _, f := range in {
		out = append(out, handlers.FileFilter{DisplayName: f.Name, Extensions: f.Extensions})
	}
	return out
}
