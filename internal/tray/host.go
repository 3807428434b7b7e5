// Package tray implements the tray icon and its menu: show window, status
// selection, settings and exit.
package tray

// MenuItem is one entry of the tray menu.
type MenuItem interface {
	Clicked() <-chan struct{}
	AddSubItem(title, tooltip string, checkable bool) MenuItem
	Check()
	Uncheck()
	Disable()
}

// Host is the platform tray.
type Host interface {
	SetIcon(icon Icon, template bool)
	SetTooltip(text string)
	AddItem(title, tooltip string) MenuItem
	AddSeparator()
	// OnTapped registers fn for a direct click on the tray icon.
	OnTapped(fn func())
}
