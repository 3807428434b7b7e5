package bridge

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/wallboard-shell/internal/ipc"
	"github.com/username/wallboard-shell/internal/lifecycle"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type stubWindow struct{}

func (stubWindow) Show()          {}
func (stubWindow) Hide()          {}
func (stubWindow) Focus()         {}
func (stubWindow) Destroy() error { return nil }

type fakeFiles struct {
	calls atomic.Int32
	open  func() ipc.OpenFileResult
}

func (f *fakeFiles) Open() ipc.OpenFileResult {
	f.calls.Add(1)
	if f.open != nil {
		return f.open()
	}
	return ipc.OpenFileResult{Result: ipc.OK(), FileName: "a.txt", FilePath: "/tmp/a.txt", Content: "x", Size: 1}
}

func (f *fakeFiles) Save(content, fileName string) ipc.SaveFileResult {
	f.calls.Add(1)
	return ipc.SaveFileResult{Result: ipc.OK(), FileName: fileName, FilePath: "/tmp/" + fileName}
}

type fakeNotifications struct {
	calls atomic.Int32
}

func (f *fakeNotifications) Show(title, body string, urgent bool) ipc.Result {
	f.calls.Add(1)
	return ipc.OK()
}

func (f *fakeNotifications) AgentEvent(agentName, eventType string, details map[string]any) ipc.Result {
	f.calls.Add(1)
	return ipc.OK()
}

func newTestBridge(t *testing.T) (*Bridge, *lifecycle.Machine, *fakeFiles, *fakeNotifications) {
	t.Helper()
	m := lifecycle.NewMachine(func() (lifecycle.Window, error) { return stubWindow{}, nil }, zap.NewNop())
	require.NoError(t, m.Start())

	files := &fakeFiles{}
	notes := &fakeNotifications{}
	return New(m, files, notes, zap.NewNop()), m, files, notes
}

// pascal converts "openFile" and "hide-to-tray" to Go method names.
func pascal(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

func TestBridge_MethodSetMatchesContract(t *testing.T) {
	var want []string
	for _, op := range ipc.Operations() {
		want = append(want, pascal(string(op)))
	}
	for _, ch := range ipc.Channels() {
		want = append(want, pascal(string(ch)))
	}
	sort.Strings(want)

	typ := reflect.TypeOf(&Bridge{})
	got := make([]string, 0, typ.NumMethod())
	for i := 0; i < typ.NumMethod(); i++ {
		got = append(got, typ.Method(i).Name)
	}
	sort.Strings(got)

	assert.Equal(t, want, got)
}

func TestBridge_Operations(t *testing.T) {
	b, _, files, notes := newTestBridge(t)

	opened := b.OpenFile()
	assert.True(t, opened.Success)
	assert.Equal(t, "x", opened.Content)
	assert.Equal(t, 1, opened.Size)

	saved := b.SaveFile("x", "a.txt")
	assert.True(t, saved.Success)
	assert.Equal(t, "a.txt", saved.FileName)
	assert.Equal(t, "/tmp/a.txt", saved.FilePath)

	assert.True(t, b.ShowNotification("Queue", "5 waiting", true).Success)
	assert.True(t, b.NotifyAgentEvent("Somchai", "login", nil).Success)

	assert.EqualValues(t, 2, files.calls.Load())
	assert.EqualValues(t, 2, notes.calls.Load())
}

func TestBridge_Channels(t *testing.T) {
	b, m, _, _ := newTestBridge(t)

	b.HideToTray()
	assert.Equal(t, lifecycle.HiddenAlive, m.State())

	b.HideToTray()
	assert.Equal(t, lifecycle.HiddenAlive, m.State())

	b.ShowApp()
	assert.Equal(t, lifecycle.Visible, m.State())
}

func TestBridge_ShuttingDown(t *testing.T) {
	b, m, files, notes := newTestBridge(t)
	require.NoError(t, m.Quit(context.Background()))

	results := []ipc.Result{
		b.OpenFile().Result,
		b.SaveFile("x", "a.txt").Result,
		b.ShowNotification("t", "b", false),
		b.NotifyAgentEvent("Somchai", "login", nil),
	}

	for _, res := range results {
		assert.False(t, res.Success)
		assert.Equal(t, ipc.ReasonShuttingDown, res.Reason)
		assert.NotEmpty(t, res.Error)
	}
	assert.Zero(t, files.calls.Load(), "handlers must not run after shutdown")
	assert.Zero(t, notes.calls.Load(), "handlers must not run after shutdown")

	// channels are ignored once quitting
	b.ShowApp()
	b.HideToTray()
	assert.Equal(t, lifecycle.Quitting, m.State())
}

func TestBridge_RecoversPanic(t *testing.T) {
	b, m, files, _ := newTestBridge(t)
	files.open = func() ipc.OpenFileResult { panic("dialog exploded") }

	res := b.OpenFile()

	assert.False(t, res.Success)
	assert.Equal(t, ipc.ReasonInternal, res.Reason)
	assert.Contains(t, res.Error, "dialog exploded")

	// the admission slot was released, so Quit does not wait for the grace period
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, m.Quit(ctx))
	assert.Less(t, time.Since(start), time.Second)
}

func TestBridge_ConcurrentCallsDuringQuit(t *testing.T) {
	defer goleak.VerifyNone(t)

	b, m, files, _ := newTestBridge(t)
	started := make(chan struct{})
	unblock := make(chan struct{})
	var once sync.Once
	files.open = func() ipc.OpenFileResult {
		once.Do(func() { close(started) })
		<-unblock
		return ipc.OpenFileResult{Result: ipc.OK(), Content: "x", Size: 1}
	}

	var wg sync.WaitGroup
	results := make([]ipc.OpenFileResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.OpenFile()
		}(i)
	}

	<-started
	quitDone := make(chan error, 1)
	go func() { quitDone <- m.Quit(context.Background()) }()

	// Quit must wait for the admitted operations.
	select {
	case <-quitDone:
		t.Fatal("Quit returned while operations were in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(unblock)
	wg.Wait()
	require.NoError(t, <-quitDone)

	for _, res := range results {
		if res.Success {
			assert.Equal(t, "x", res.Content)
		} else {
			assert.Equal(t, ipc.ReasonShuttingDown, res.Reason)
		}
	}

	late := b.OpenFile()
	assert.Equal(t, ipc.ReasonShuttingDown, late.Reason)
}

type recordingEmitter struct {
	event string
	data  []any
}

func (r *recordingEmitter) Emit(event string, data ...any) {
	r.event = event
	r.data = data
}

func TestEvents_StatusChanged(t *testing.T) {
	emitter := &recordingEmitter{}
	events := NewEvents(emitter, zap.NewNop())
	events.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	intent := events.StatusChanged("Break")

	assert.Equal(t, "status-changed-from-tray", emitter.event)
	require.Len(t, emitter.data, 1)
	assert.Equal(t, ipc.StatusChangeIntent{NewStatus: "Break", Timestamp: "2024-03-01T09:30:00Z"}, emitter.data[0])
	assert.Equal(t, intent, emitter.data[0])
}
