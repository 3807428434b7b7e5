package desktop

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/wallboard-shell/internal/handlers"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFileFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters []handlers.FileFilter
		want    []runtime.FileFilter
	}{
		{"none", nil, nil},
		{
			"groups",
			[]handlers.FileFilter{
				{DisplayName: "Text Files", Extensions: []string{"txt", ".json", " csv "}},
				{DisplayName: "All Files", Extensions: []string{"*"}},
			},
			[]runtime.FileFilter{
				{DisplayName: "Text Files", Pattern: "*.txt;*.json;*.csv"},
				{DisplayName: "All Files", Pattern: "*"},
			},
		},
		{
			"empty group dropped",
			[]handlers.FileFilter{{DisplayName: "Nothing", Extensions: []string{""}}, {DisplayName: "CSV", Extensions: []string{"csv"}}},
			[]runtime.FileFilter{{DisplayName: "CSV", Pattern: "*.csv"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileFilters(tt.filters))
		})
	}
}

func TestApp_NotStarted(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := New(Options{Title: "Agent Wallboard"}, zap.New(core))

	_, err := app.Window()
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = app.Dialogs().OpenFile(handlers.OpenOptions{})
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = app.Dialogs().SaveFile(handlers.SaveOptions{})
	assert.ErrorIs(t, err, ErrNotStarted)

	app.Emit("status-changed-from-tray", "Busy")
	assert.Equal(t, 1, logs.FilterMessage("Event dropped, runtime not started").Len())
}

func TestEmbeddedFrontend(t *testing.T) {
	app := New(Options{}, zap.NewNop())

	data, err := fs.ReadFile(app.opts.Assets, "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "status-changed-from-tray")
}

func TestWailsLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := newWailsLogger(zap.New(core))

	l.Trace("trace")
	l.Info("info")
	l.Warning("warning")
	l.Fatal("fatal")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
	assert.Equal(t, "wails", entries[0].LoggerName)
}
