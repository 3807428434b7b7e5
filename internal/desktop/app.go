// Package desktop hosts the webview window through Wails and adapts it to the
// lifecycle, handlers and bridge packages.
package desktop

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/username/wallboard-shell/internal/lifecycle"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

//go:embed all:frontend
var frontend embed.FS

// ErrNotStarted is returned when the window is used before the webview runtime
// is up.
var ErrNotStarted = errors.New("webview runtime not started")

// Options configures the window.
type Options struct {
	Title       string
	Width       int
	Height      int
	StartHidden bool
	// UniqueID identifies the application for the single instance lock.
	UniqueID string
	// Assets overrides the built-in frontend.
	Assets fs.FS
}

// Hooks are the shell callbacks invoked by the webview runtime.
type Hooks struct {
	// Startup runs once the runtime is ready. An error aborts the application.
	Startup func() error
	// BeforeClose returns true to prevent the window from closing.
	BeforeClose func() bool
	// SecondInstance runs when the application is launched again.
	SecondInstance func()
	// Shutdown runs when the runtime terminates.
	Shutdown func()
}

// App is the Wails application host.
type App struct {
	opts   Options
	logger *zap.Logger

	mu      sync.RWMutex
	ctx     context.Context
	started bool
}

// New creates the host.
func New(opts Options, logger *zap.Logger) *App {
	if opts.Assets == nil {
		sub, err := fs.Sub(frontend, "frontend")
		if err != nil {
			panic(fmt.Sprintf("embedded frontend: %v", err))
		}
		opts.Assets = sub
	}
	return &App{opts: opts, logger: logger}
}

// Run opens the window and blocks until the application quits. bind is the
// only value exposed to the frontend.
func (a *App) Run(bind any, hooks Hooks) error {
	var startErr error

	err := wails.Run(&options.App{
		Title:       a.opts.Title,
		Width:       a.opts.Width,
		Height:      a.opts.Height,
		StartHidden: a.opts.StartHidden,
		AssetServer: &assetserver.Options{
			Assets: a.opts.Assets,
		},
		BackgroundColour: &options.RGBA{R: 248, G: 250, B: 252, A: 1},
		Logger:           newWailsLogger(a.logger),
		OnStartup: func(ctx context.Context) {
			a.mu.Lock()
			a.ctx = ctx
			a.started = true
			a.mu.Unlock()

			a.logger.Info("Webview runtime started")
			if hooks.Startup == nil {
				return
			}
			if err := hooks.Startup(); err != nil {
				startErr = err
				a.logger.Error("Startup failed, quitting", zap.Error(err))
				runtime.Quit(ctx)
			}
		},
		OnBeforeClose: func(ctx context.Context) bool {
			if hooks.BeforeClose == nil {
				return false
			}
			return hooks.BeforeClose()
		},
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			a.started = false
			a.mu.Unlock()

			a.logger.Info("Webview runtime shutting down")
			if hooks.Shutdown != nil {
				hooks.Shutdown()
			}
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId: a.opts.UniqueID,
			OnSecondInstanceLaunch: func(data options.SecondInstanceData) {
				a.logger.Info("Second instance launched", zap.Strings("args", data.Args))
				if hooks.SecondInstance != nil {
					hooks.SecondInstance()
				}
			},
		},
		Bind: []interface{}{
			bind,
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   a.opts.Title,
				Message: "Agent wallboard desktop shell",
			},
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to run webview: %w", err)
	}
	if startErr != nil {
		return startErr
	}
	return nil
}

// Window returns the lifecycle handle of the webview window.
func (a *App) Window() (lifecycle.Window, error) {
	if _, ok := a.context(); !ok {
		return nil, ErrNotStarted
	}
	return window{app: a}, nil
}

// Emit sends an event to the frontend. Events emitted before startup are
// dropped.
func (a *App) Emit(event string, data ...any) {
	ctx, ok := a.context()
	if !ok {
		a.logger.Debug("Event dropped, runtime not started", zap.String("event", event))
		return
	}
	runtime.EventsEmit(ctx, event, data...)
}

func (a *App) context() (context.Context, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx, a.started
}

type window struct {
	app *App
}

func (w window) Show() {
	if ctx, ok := w.app.context(); ok {
		runtime.WindowShow(ctx)
	}
}

func (w window) Hide() {
	if ctx, ok := w.app.context(); ok {
		runtime.WindowHide(ctx)
	}
}

func (w window) Focus() {
	if ctx, ok := w.app.context(); ok {
		runtime.WindowUnminimise(ctx)
		runtime.WindowShow(ctx)
	}
}

// Destroy quits the runtime, which closes the window. OnBeforeClose may run
// again from here.
func (w window) Destroy() error {
	ctx, ok := w.app.context()
	if !ok {
		return ErrNotStarted
	}
	runtime.Quit(ctx)
	return nil
}
