package desktop

import (
	"strings"

	"github.com/username/wallboard-shell/internal/handlers"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Dialogs returns the native file dialogs of the webview runtime.
func (a *App) Dialogs() handlers.Dialogs {
	return dialogs{app: a}
}

type dialogs struct {
	app *App
}

func (d dialogs) OpenFile(opts handlers.OpenOptions) (string, error) {
	ctx, ok := d.app.context()
	if !ok {
		return "", ErrNotStarted
	}
	return runtime.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title:   opts.Title,
		Filters: fileFilters(opts.Filters),
	})
}

func (d dialogs) SaveFile(opts handlers.SaveOptions) (string, error) {
	ctx, ok := d.app.context()
	if !ok {
		return "", ErrNotStarted
	}
	return runtime.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:                opts.Title,
		DefaultFilename:      opts.DefaultFileName,
		Filters:              fileFilters(opts.Filters),
		CanCreateDirectories: true,
	})
}

// fileFilters converts extension lists to dialog patterns, e.g.
// [txt json] -> "*.txt;*.json".
func fileFilters(filters []handlers.FileFilter) []runtime.FileFilter {
	if len(filters) == 0 {
		return nil
	}

	out := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		patterns := make([]string, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			switch ext {
			case "":
				continue
			case "*":
				patterns = append(patterns, "*")
			default:
				patterns = append(patterns, "*."+ext)
			}
		}
		if len(patterns) == 0 {
			continue
		}
		out = append(out, runtime.FileFilter{
			DisplayName: f.DisplayName,
			Pattern:     strings.Join(patterns, ";"),
		})
	}
	return out
}
