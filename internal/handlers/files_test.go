package handlers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/username/wallboard-shell/internal/ipc"
	"go.uber.org/zap"
)

type fakeDialogs struct {
	openPath string
	savePath string
	err      error

	lastOpen OpenOptions
	lastSave SaveOptions
}

func (d *fakeDialogs) OpenFile(opts OpenOptions) (string, error) {
	d.lastOpen = opts
	return d.openPath, d.err
}

func (d *fakeDialogs) SaveFile(opts SaveOptions) (string, error) {
	d.lastSave = opts
	return d.savePath, d.err
}

var textFilters = []FileFilter{
	{DisplayName: "Text Files", Extensions: []string{"txt", "json", "csv"}},
}

func newTestFiles(d *fakeDialogs, fs afero.Fs) *Files {
	return NewFiles(d, fs, FilesConfig{
		OpenFilters:  textFilters,
		SaveFilters:  textFilters,
		MaxOpenBytes: 1024,
	}, zap.NewNop())
}

func TestFiles_SaveThenOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/tmp", 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	d := &fakeDialogs{savePath: "/tmp/a.txt", openPath: "/tmp/a.txt"}
	files := newTestFiles(d, fs)

	saved := files.Save("x", "a.txt")
	if !saved.Success || saved.FileName != "a.txt" || saved.FilePath != "/tmp/a.txt" {
		t.Fatalf("Save() = %+v, want success a.txt at /tmp/a.txt", saved)
	}
	if d.lastSave.DefaultFileName != "a.txt" {
		t.Errorf("save dialog default name = %q, want a.txt", d.lastSave.DefaultFileName)
	}

	opened := files.Open()
	if !opened.Success {
		t.Fatalf("Open() = %+v, want success", opened)
	}
	if opened.Content != "x" || opened.Size != 1 {
		t.Errorf("Open() content = %q size = %d, want \"x\" and 1", opened.Content, opened.Size)
	}
	if opened.FileName != "a.txt" || opened.FilePath != "/tmp/a.txt" {
		t.Errorf("Open() file = %s (%s)", opened.FileName, opened.FilePath)
	}
}

func TestFiles_Cancelled(t *testing.T) {
	files := newTestFiles(&fakeDialogs{}, afero.NewMemMapFs())

	opened := files.Open()
	if opened.Success || !opened.Cancelled || opened.Error != "" {
		t.Errorf("Open() cancelled = %+v, want {success:false, cancelled:true}", opened)
	}

	saved := files.Save("data", "report.csv")
	if saved.Success || !saved.Cancelled || saved.Error != "" {
		t.Errorf("Save() cancelled = %+v, want {success:false, cancelled:true}", saved)
	}
}

func TestFiles_Failures(t *testing.T) {
	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/data/big.txt", make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := afero.WriteFile(mem, "/data/app.exe", []byte("MZ"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name       string
		dialogs    *fakeDialogs
		fs         afero.Fs
		save       bool
		wantReason ipc.Reason
	}{
		{"open missing file", &fakeDialogs{openPath: "/data/missing.txt"}, mem, false, ipc.ReasonIOFailure},
		{"open too large", &fakeDialogs{openPath: "/data/big.txt"}, mem, false, ipc.ReasonIOFailure},
		{"open directory", &fakeDialogs{openPath: "/data"}, mem, false, ipc.ReasonInvalidRequest},
		{"open disallowed type", &fakeDialogs{openPath: "/data/app.exe"}, mem, false, ipc.ReasonInvalidRequest},
		{"open dialog error", &fakeDialogs{err: errors.New("no portal")}, mem, false, ipc.ReasonIOFailure},
		{"save read-only fs", &fakeDialogs{savePath: "/data/out.txt"}, afero.NewReadOnlyFs(mem), true, ipc.ReasonIOFailure},
		{"save dialog error", &fakeDialogs{err: errors.New("no portal")}, mem, true, ipc.ReasonIOFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := newTestFiles(tt.dialogs, tt.fs)

			var res ipc.Result
			if tt.save {
				res = files.Save("content", "out.txt").Result
			} else {
				res = files.Open().Result
			}

			if res.Success {
				t.Fatalf("result = %+v, want failure", res)
			}
			if res.Cancelled {
				t.Errorf("Cancelled = true for %s", tt.name)
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
			if res.Error == "" {
				t.Error("Error is empty")
			}
		})
	}
}

func TestFiles_SaveDefaultFileName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"empty", "", "export.txt"},
		{"blank", "   ", "export.txt"},
		{"plain", "agents.json", "agents.json"},
		{"path stripped", "../../etc/agents.csv", "agents.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDialogs{}
			files := newTestFiles(d, afero.NewMemMapFs())

			files.Save("x", tt.fileName)

			if d.lastSave.DefaultFileName != tt.want {
				t.Errorf("DefaultFileName = %q, want %q", d.lastSave.DefaultFileName, tt.want)
			}
		})
	}
}

func TestFiles_SizeCountsCharacters(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/notes.txt", []byte("สวัสดี"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	files := newTestFiles(&fakeDialogs{openPath: "/notes.txt"}, fs)
	res := files.Open()

	if !res.Success {
		t.Fatalf("Open() = %+v, want success", res)
	}
	if res.Size != 6 {
		t.Errorf("Size = %d, want 6", res.Size)
	}
}

func TestFiles_OpenEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/tmp/empty.txt", nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := newTestFiles(&fakeDialogs{openPath: "/tmp/empty.txt"}, fs).Open()
	if !res.Success {
		t.Fatalf("Open() = %+v, want success", res)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if content, ok := got["content"]; !ok || content != "" {
		t.Errorf("content = %v (present %v), want empty string", content, ok)
	}
	if size, ok := got["size"]; !ok || size != float64(0) {
		t.Errorf("size = %v (present %v), want 0", size, ok)
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		path    string
		filters []FileFilter
		want    bool
	}{
		{"/a/report.TXT", textFilters, true},
		{"/a/data.csv", textFilters, true},
		{"/a/app.exe", textFilters, false},
		{"/a/noext", textFilters, false},
		{"/a/app.exe", append(textFilters, FileFilter{DisplayName: "All Files", Extensions: []string{"*"}}), true},
		{"/a/app.exe", nil, true},
	}

	for _, tt := range tests {
		if got := allowed(tt.path, tt.filters); got != tt.want {
			t.Errorf("allowed(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
