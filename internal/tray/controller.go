package tray

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/username/wallboard-shell/internal/ipc"
	"github.com/username/wallboard-shell/internal/lifecycle"
	"github.com/username/wallboard-shell/internal/messages"
	"go.uber.org/zap"
)

var (
	// ErrNoStatuses is returned when the status submenu would be empty.
	ErrNoStatuses = errors.New("tray needs at least one status")

	// ErrStopped is returned by Start after Stop was called.
	ErrStopped = errors.New("tray stopped")

	// ErrStarted is returned when Start is called twice.
	ErrStarted = errors.New("tray already started")
)

// Window is the part of the lifecycle machine driven from the tray.
type Window interface {
	Show(cause lifecycle.Cause) bool
	Toggle(cause lifecycle.Cause)
}

// StatusPublisher forwards a status selection to the frontend.
type StatusPublisher interface {
	StatusChanged(status string) ipc.StatusChangeIntent
}

// Noticer shows informational notifications.
type Noticer interface {
	Notice(title, body string)
}

// Config configures the tray.
type Config struct {
	Icon         Icon
	TemplateIcon bool
	Tooltip      string
	Statuses     []string
}

// Controller owns the tray menu and dispatches its clicks.
type Controller struct {
	host    Host
	window  Window
	status  StatusPublisher
	notices Noticer
	texts   *messages.Catalog
	cfg     Config
	onExit  func()
	logger  *zap.Logger

	mu          sync.Mutex
	current     string
	statusItems []MenuItem
	started     bool
	stopped     bool
	cancel      context.CancelFunc

	wg       sync.WaitGroup
	exitOnce sync.Once
}

// NewController creates a tray controller. onExit is called at most once, when
// Exit is chosen from the menu.
func NewController(host Host, window Window, status StatusPublisher, notices Noticer, texts *messages.Catalog, cfg Config, onExit func(), logger *zap.Logger) *Controller {
	if cfg.Tooltip == "" {
		cfg.Tooltip = texts.TrayTooltip
	}
	return &Controller{
		host:    host,
		window:  window,
		status:  status,
		notices: notices,
		texts:   texts,
		cfg:     cfg,
		onExit:  onExit,
		logger:  logger,
	}
}

// Start builds the menu and starts handling clicks until ctx is done or Stop
// is called. It may run on another goroutine than Stop and Wait.
func (c *Controller) Start(ctx context.Context) error {
	if len(c.cfg.Statuses) == 0 {
		return ErrNoStatuses
	}

	c.mu.Lock()
	switch {
	case c.stopped:
		c.mu.Unlock()
		return ErrStopped
	case c.started:
		c.mu.Unlock()
		return ErrStarted
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	// one menu loop plus one loop per status, counted before Stop can run
	c.wg.Add(1 + len(c.cfg.Statuses))
	c.mu.Unlock()

	c.host.SetIcon(c.cfg.Icon, c.cfg.TemplateIcon)

	mShow := c.host.AddItem(c.texts.TrayShow, "Show the wallboard window")
	mStatus := c.host.AddItem(c.texts.TrayStatus, "Change your agent status")
	statusItems := make([]MenuItem, len(c.cfg.Statuses))
	for i, s := range c.cfg.Statuses {
		statusItems[i] = mStatus.AddSubItem(s, "", true)
	}
	c.mu.Lock()
	c.statusItems = statusItems
	c.mu.Unlock()
	c.host.AddSeparator()
	mSettings := c.host.AddItem(c.texts.TraySettings, "Settings")
	c.host.AddSeparator()
	mExit := c.host.AddItem(c.texts.TrayExit, "Exit the application")

	c.host.OnTapped(func() {
		c.logger.Debug("Tray icon clicked")
		c.window.Toggle(lifecycle.CauseTrayClick)
	})

	c.setStatus(0)

	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-mShow.Clicked():
				c.logger.Info("Show clicked from tray")
				c.window.Show(lifecycle.CauseTrayMenu)
			case <-mSettings.Clicked():
				c.logger.Info("Settings clicked from tray, not available yet")
			case <-mExit.Clicked():
				c.logger.Info("Exit clicked from tray")
				c.exit()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	for i, item := range statusItems {
		i, item := i, item
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-item.Clicked():
					c.SelectStatus(c.cfg.Statuses[i])
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	c.logger.Info("Tray started", zap.Strings("statuses", c.cfg.Statuses), zap.String("icon", c.cfg.Icon.Source))
	return nil
}

// SelectStatus marks status as current, tells the frontend and confirms it
// with a notification. Unknown statuses are ignored.
func (c *Controller) SelectStatus(status string) {
	idx := -1
	for i, s := range c.cfg.Statuses {
		if s == status {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.logger.Warn("Unknown status selected", zap.String("status", status))
		return
	}

	c.setStatus(idx)
	c.status.StatusChanged(status)
	c.notices.Notice(c.texts.StatusTitle, c.texts.StatusBody(status))
}

// Status returns the currently checked status.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Stop stops click handling and makes later Start calls fail. It does not
// wait; see Wait.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Wait blocks until the click handlers have returned. Call it after Stop.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) setStatus(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.statusItems {
		if i == idx {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	c.current = c.cfg.Statuses[idx]
	c.host.SetTooltip(fmt.Sprintf("%s (%s)", c.cfg.Tooltip, c.current))
}

func (c *Controller) exit() {
	c.exitOnce.Do(func() {
		if c.onExit != nil {
			c.onExit()
		}
	})
}
