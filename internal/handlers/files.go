// Package handlers implements the privileged operations reachable through the
// capability boundary. Every handler converts its failures into ipc results.
package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/username/wallboard-shell/internal/ipc"
	"go.uber.org/zap"
)

// FileFilter is one extension group of a file dialog. "*" matches any file.
type FileFilter struct {
	DisplayName string
	Extensions  []string
}

// OpenOptions configures an open dialog.
type OpenOptions struct {
	Title   string
	Filters []FileFilter
}

// SaveOptions configures a save dialog.
type SaveOptions struct {
	Title           string
	DefaultFileName string
	Filters         []FileFilter
}

// Dialogs presents native file dialogs. An empty path with a nil error means
// the user cancelled.
type Dialogs interface {
	OpenFile(opts OpenOptions) (string, error)
	SaveFile(opts SaveOptions) (string, error)
}

// FilesConfig configures the file handlers.
type FilesConfig struct {
	OpenFilters     []FileFilter
	SaveFilters     []FileFilter
	DefaultFileName string
	MaxOpenBytes    int64
}

// Files implements openFile and saveFile.
type Files struct {
	dialogs Dialogs
	fs      afero.Fs
	cfg     FilesConfig
	logger  *zap.Logger
}

// NewFiles creates the file handlers.
func NewFiles(dialogs Dialogs, fs afero.Fs, cfg FilesConfig, logger *zap.Logger) *Files {
	if cfg.DefaultFileName == "" {
		cfg.DefaultFileName = "export.txt"
	}
	return &Files{
		dialogs: dialogs,
		fs:      fs,
		cfg:     cfg,
		logger:  logger,
	}
}

// Open lets the user pick a file and returns its content.
func (f *Files) Open() ipc.OpenFileResult {
	path, err := f.dialogs.OpenFile(OpenOptions{
		Title:   "Open File",
		Filters: f.cfg.OpenFilters,
	})
	if err != nil {
		f.logger.Error("Open dialog failed", zap.Error(err))
		return ipc.OpenFileResult{Result: ipc.Failure(fmt.Errorf("%w: open dialog: %v", ipc.ErrIO, err))}
	}
	if path == "" {
		return ipc.OpenFileResult{Result: ipc.Failure(ipc.ErrCancelled)}
	}

	if !allowed(path, f.cfg.OpenFilters) {
		return ipc.OpenFileResult{Result: ipc.Failure(
			fmt.Errorf("%w: file type not allowed: %s", ipc.ErrInvalidRequest, filepath.Ext(path)))}
	}

	content, err := f.read(path)
	if err != nil {
		f.logger.Error("Failed to read file", zap.String("path", path), zap.Error(err))
		return ipc.OpenFileResult{Result: ipc.Failure(err)}
	}

	f.logger.Info("File opened", zap.String("file", filepath.Base(path)), zap.Int("bytes", len(content)))

	return ipc.OpenFileResult{
		Result:   ipc.OK(),
		FileName: filepath.Base(path),
		FilePath: path,
		Content:  content,
		Size:     utf8.RuneCountInString(content),
	}
}

// Save lets the user pick a destination and writes content to it.
func (f *Files) Save(content, fileName string) ipc.SaveFileResult {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = f.cfg.DefaultFileName
	}

	path, err := f.dialogs.SaveFile(SaveOptions{
		Title:           "Save File",
		DefaultFileName: name,
		Filters:         f.cfg.SaveFilters,
	})
	if err != nil {
		f.logger.Error("Save dialog failed", zap.Error(err))
		return ipc.SaveFileResult{Result: ipc.Failure(fmt.Errorf("%w: save dialog: %v", ipc.ErrIO, err))}
	}
	if path == "" {
		return ipc.SaveFileResult{Result: ipc.Failure(ipc.ErrCancelled)}
	}

	if err := afero.WriteFile(f.fs, path, []byte(content), 0o644); err != nil {
		f.logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return ipc.SaveFileResult{Result: ipc.Failure(fmt.Errorf("%w: %v", ipc.ErrIO, err))}
	}

	f.logger.Info("File saved", zap.String("file", filepath.Base(path)), zap.Int("bytes", len(content)))

	return ipc.SaveFileResult{
		Result:   ipc.OK(),
		FileName: filepath.Base(path),
		FilePath: path,
	}
}

func (f *Files) read(path string) (string, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ipc.ErrIO, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ipc.ErrIO, path)
	}
	if f.cfg.MaxOpenBytes > 0 && info.Size() > f.cfg.MaxOpenBytes {
		return "", fmt.Errorf("%w: file is %d bytes, limit is %d", ipc.ErrIO, info.Size(), f.cfg.MaxOpenBytes)
	}

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ipc.ErrIO, err)
	}
	return string(data), nil
}

// allowed reports whether path matches one of the filters. No filters, or a
// "*" filter, allows everything.
func allowed(path string, filters []FileFilter) bool {
	if len(filters) == 0 {
		return true
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, filter := range filters {
		for _, e := range filter.Extensions {
			e = strings.TrimPrefix(strings.ToLower(e), ".")
			if e == "*" || e == ext {
				return true
			}
		}
	}
	return false
}
