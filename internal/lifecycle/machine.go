package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/username/wallboard-shell/internal/ipc"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("lifecycle already started")

// Machine owns the application window and the lifecycle state.
// All transitions go through its methods; listeners run synchronously in the
// caller's goroutine after the state lock is released.
type Machine struct {
	factory WindowFactory
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	window    Window
	hiddenYet bool // first hide of the session already happened
	bypassed  int  // close requests let through because of shutdown intent

	inflight sync.WaitGroup

	listeners []func(Transition)
	firstHide []func()
}

// NewMachine creates a machine in the Starting state.
func NewMachine(factory WindowFactory, logger *zap.Logger) *Machine {
	return &Machine{
		factory: factory,
		logger:  logger,
		state:   Starting,
	}
}

// OnTransition registers fn to be called after every transition.
func (m *Machine) OnTransition(fn func(Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// OnFirstHide registers fn to be called the first time the window is hidden
// in this session.
func (m *Machine) OnFirstHide(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.firstHide = append(m.firstHide, fn)
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ShuttingDown reports whether shutdown intent is set.
func (m *Machine) ShuttingDown() bool {
	return m.State() == Quitting
}

// Visible reports whether the window is currently shown.
func (m *Machine) Visible() bool {
	return m.State() == Visible
}

// Start creates the window and enters Visible. A window creation failure is
// returned as is and leaves the machine in Starting.
func (m *Machine) Start() error {
	return m.start(false)
}

// StartHidden creates the window and enters HiddenAlive without ever showing
// it. It counts as the first hide of the session.
func (m *Machine) StartHidden() error {
	return m.start(true)
}

func (m *Machine) start(hidden bool) error {
	m.mu.Lock()
	if m.state != Starting {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}

	if err := m.createWindowLocked(); err != nil {
		m.mu.Unlock()
		return err
	}

	var callbacks []func()
	if hidden {
		callbacks = m.hideLocked(CauseStart)
	} else {
		m.window.Show()
		m.window.Focus()
		callbacks = m.enterLocked(Visible, CauseStart)
	}
	m.mu.Unlock()

	run(callbacks)
	return nil
}

// InterceptClose is called for every OS close request. It returns true when
// the close must be prevented: the window is hidden instead and the process
// keeps running. Once shutdown intent is set it always returns false so the
// window can really be destroyed.
func (m *Machine) InterceptClose() (prevent bool) {
	m.mu.Lock()

	switch m.state {
	case Quitting:
		m.bypassed++
		m.mu.Unlock()
		m.logger.Debug("Close request allowed, shutting down")
		return false

	case Starting:
		m.mu.Unlock()
		return false

	case HiddenAlive:
		m.mu.Unlock()
		return true
	}

	callbacks := m.hideLocked(CauseCloseRequest)
	m.mu.Unlock()

	run(callbacks)
	m.logger.Info("Close intercepted, window hidden to tray")
	return true
}

// Hide hides the window and keeps the process alive. It returns false if the
// window was not visible.
func (m *Machine) Hide(cause Cause) bool {
	m.mu.Lock()
	if m.state != Visible {
		m.mu.Unlock()
		return false
	}
	callbacks := m.hideLocked(cause)
	m.mu.Unlock()

	run(callbacks)
	return true
}

// Show re-surfaces the window and focuses it. It returns false when shutdown
// intent is set or no window exists.
func (m *Machine) Show(cause Cause) bool {
	m.mu.Lock()

	if m.state == Quitting || m.window == nil {
		m.mu.Unlock()
		return false
	}

	if m.state == Visible {
		m.window.Focus()
		m.mu.Unlock()
		return true
	}

	m.window.Show()
	m.window.Focus()
	callbacks := m.enterLocked(Visible, cause)
	m.mu.Unlock()

	run(callbacks)
	return true
}

// Toggle hides a visible window and shows a hidden one.
func (m *Machine) Toggle(cause Cause) {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()

	switch state {
	case Visible:
		m.Hide(cause)
	case HiddenAlive:
		m.Show(cause)
	}
}

// Reactivate handles a platform re-invocation of the application: a missing
// window is recreated, a hidden one is shown.
func (m *Machine) Reactivate() error {
	m.mu.Lock()

	if m.state == Quitting {
		m.mu.Unlock()
		return nil
	}

	if m.window == nil {
		if err := m.createWindowLocked(); err != nil {
			m.mu.Unlock()
			return err
		}
		m.window.Show()
		m.window.Focus()
		callbacks := m.enterLocked(Visible, CauseReactivate)
		m.mu.Unlock()

		run(callbacks)
		return nil
	}
	m.mu.Unlock()

	m.Show(CauseReactivate)
	return nil
}

// Admit reserves a slot for a privileged operation. It fails with
// ipc.ErrShuttingDown once shutdown intent is set. The returned release
// function must be called when the operation completes.
func (m *Machine) Admit() (release func(), err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Quitting {
		return nil, ipc.ErrShuttingDown
	}

	m.inflight.Add(1)
	var once sync.Once
	return func() { once.Do(m.inflight.Done) }, nil
}

// Quit sets shutdown intent, waits for admitted operations until ctx is done,
// and destroys the window. Calling Quit again is a no-op.
func (m *Machine) Quit(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Quitting {
		m.mu.Unlock()
		return nil
	}
	callbacks := m.enterLocked(Quitting, CauseQuit)
	m.mu.Unlock()

	run(callbacks)

	m.drain(ctx)

	// Destroy runs without the lock held: the platform may re-enter
	// InterceptClose synchronously.
	m.mu.Lock()
	w := m.window
	m.mu.Unlock()

	if w == nil {
		return nil
	}

	err := w.Destroy()

	m.mu.Lock()
	m.window = nil
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to destroy window: %w", err)
	}
	return nil
}

func (m *Machine) drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("Privileged operations still running at shutdown", zap.Error(ctx.Err()))
	}
}

func (m *Machine) createWindowLocked() error {
	w, err := m.factory()
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	if w == nil {
		return errors.New("failed to create window: factory returned nil")
	}
	m.window = w
	return nil
}

func (m *Machine) hideLocked(cause Cause) []func() {
	m.window.Hide()
	callbacks := m.enterLocked(HiddenAlive, cause)

	if !m.hiddenYet {
		m.hiddenYet = true
		callbacks = append(callbacks, m.firstHide...)
	}
	return callbacks
}

// enterLocked switches state and returns the listener calls to run once the
// lock is released.
func (m *Machine) enterLocked(to State, cause Cause) []func() {
	tr := Transition{From: m.state, To: to, Cause: cause}
	m.state = to

	m.logger.Debug("Lifecycle transition",
		zap.Stringer("from", tr.From),
		zap.Stringer("to", tr.To),
		zap.String("cause", string(tr.Cause)))

	callbacks := make([]func(), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fn := fn
		callbacks = append(callbacks, func() { fn(tr) })
	}
	return callbacks
}

func run(callbacks []func()) {
	for _, fn := range callbacks {
		fn()
	}
}
