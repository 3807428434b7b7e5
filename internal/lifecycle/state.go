// Package lifecycle implements the window lifecycle state machine: it owns the
// single application window and the shutdown intent, and decides on every
// close request whether to hide the window or let it be destroyed.
package lifecycle

// State is the process-wide application lifecycle state.
type State int

const (
	// Starting is the state before the window has been created.
	Starting State = iota
	// Visible means the window exists and is shown.
	Visible
	// HiddenAlive means the window exists but is hidden; the process keeps running in the tray.
	HiddenAlive
	// Quitting is terminal: shutdown intent is set and the window is being destroyed.
	Quitting
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Visible:
		return "visible"
	case HiddenAlive:
		return "hidden"
	case Quitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Cause names the event that triggered a transition.
type Cause string

const (
	CauseStart             Cause = "start"
	CauseCloseRequest      Cause = "close_request"
	CauseHideToTray        Cause = "hide_to_tray"
	CauseShowApp           Cause = "show_app"
	CauseTrayClick         Cause = "tray_click"
	CauseTrayMenu          Cause = "tray_menu"
	CauseNotificationClick Cause = "notification_click"
	CauseReactivate        Cause = "reactivate"
	CauseQuit              Cause = "quit"
)

// Transition describes a completed state change.
type Transition struct {
	From  State
	To    State
	Cause Cause
}

// Window is the opaque handle to the single OS window.
type Window interface {
	Show()
	Hide()
	Focus()
	// Destroy closes the window for real. The platform may call back into
	// Machine.InterceptClose from inside Destroy.
	Destroy() error
}

// WindowFactory creates the application window.
type WindowFactory func() (Window, error)
