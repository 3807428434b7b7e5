package tray

import (
	"sync"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// SystrayHost is the Host backed by fyne.io/systray.
type SystrayHost struct {
	logger *zap.Logger
	end    func()
	quit   sync.Once
}

// NewSystrayHost creates the host. The tray does not exist until Start.
func NewSystrayHost(logger *zap.Logger) *SystrayHost {
	return &SystrayHost{logger: logger}
}

// Start registers the tray on an event loop owned by someone else (the
// webview). onReady is called once the tray can be populated.
func (h *SystrayHost) Start(onReady func()) {
	start, end := systray.RunWithExternalLoop(onReady, func() {
		h.logger.Info("System tray exited")
	})
	h.end = end
	start()
}

// Quit removes the tray icon.
func (h *SystrayHost) Quit() {
	if h.end == nil {
		return
	}
	h.quit.Do(h.end)
}

func (h *SystrayHost) SetIcon(icon Icon, template bool) {
	if template && len(icon.Template) > 0 {
		systray.SetTemplateIcon(icon.Template, icon.Data)
		return
	}
	systray.SetIcon(icon.Data)
}

func (h *SystrayHost) SetTooltip(text string) {
	systray.SetTooltip(text)
}

func (h *SystrayHost) AddItem(title, tooltip string) MenuItem {
	return systrayItem{systray.AddMenuItem(title, tooltip)}
}

func (h *SystrayHost) AddSeparator() {
	systray.AddSeparator()
}

func (h *SystrayHost) OnTapped(fn func()) {
	systray.SetOnTapped(fn)
}

type systrayItem struct {
	item *systray.MenuItem
}

func (i systrayItem) Clicked() <-chan struct{} {
	return i.item.ClickedCh
}

func (i systrayItem) AddSubItem(title, tooltip string, checkable bool) MenuItem {
	if checkable {
		return systrayItem{i.item.AddSubMenuItemCheckbox(title, tooltip, false)}
	}
	return systrayItem{i.item.AddSubMenuItem(title, tooltip)}
}

func (i systrayItem) Check()   { i.item.Check() }
func (i systrayItem) Uncheck() { i.item.Uncheck() }
func (i systrayItem) Disable() { i.item.Disable() }
