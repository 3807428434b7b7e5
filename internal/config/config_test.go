package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func writeConfig(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFs(afero.NewMemMapFs(), "")
	if err != nil {
		t.Fatalf("LoadFs() error = %v", err)
	}

	if cfg.GetLocale() != "en" {
		t.Errorf("locale = %q, want en", cfg.GetLocale())
	}
	if got := cfg.Tray.GetStatuses(); !reflect.DeepEqual(got, []string{"Available", "Busy", "Break"}) {
		t.Errorf("statuses = %v", got)
	}
	if cfg.Shutdown.GetGrace() != 3*time.Second {
		t.Errorf("grace = %v, want 3s", cfg.Shutdown.GetGrace())
	}
	if !cfg.Notifications.HideNotice {
		t.Error("hide_notice default = false, want true")
	}
	if cfg.Notifications.Backend != "auto" {
		t.Errorf("backend = %q, want auto", cfg.Notifications.Backend)
	}
	if cfg.Files.DefaultFileName != "export.txt" {
		t.Errorf("default_file_name = %q", cfg.Files.DefaultFileName)
	}
	if w, h := cfg.Window.GetWindowSize(); w != 1200 || h != 800 {
		t.Errorf("window size = %dx%d", w, h)
	}
	if len(cfg.Files.GetOpenFilters()) != 2 || len(cfg.Files.GetSaveFilters()) != 3 {
		t.Errorf("filters = %v / %v", cfg.Files.GetOpenFilters(), cfg.Files.GetSaveFilters())
	}
}

func TestLoad_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "/etc/wallboard/custom.yaml", `
app:
  locale: th
window:
  width: 1440
  start_hidden: true
tray:
  icon_path: /opt/wallboard/tray.png
  statuses: [Ready, "On Call", Lunch, Training]
files:
  max_open_bytes: 2048
  open_filters:
    - name: Logs
      extensions: [log]
notifications:
  backend: beeep
  hide_notice: false
shutdown:
  grace: 500ms
log:
  file: /var/log/wallboard.log
  level: debug
`)

	cfg, err := LoadFs(fs, "/etc/wallboard/custom.yaml")
	if err != nil {
		t.Fatalf("LoadFs() error = %v", err)
	}

	if cfg.GetLocale() != "th" {
		t.Errorf("locale = %q", cfg.GetLocale())
	}
	if w, h := cfg.Window.GetWindowSize(); w != 1440 || h != 800 {
		t.Errorf("window size = %dx%d, want 1440x800", w, h)
	}
	if !cfg.Window.StartHidden {
		t.Error("start_hidden = false")
	}
	if got := cfg.Tray.GetStatuses(); !reflect.DeepEqual(got, []string{"Ready", "On Call", "Lunch", "Training"}) {
		t.Errorf("statuses = %v", got)
	}
	if f := cfg.Files.GetOpenFilters(); len(f) != 1 || f[0].Name != "Logs" || f[0].Extensions[0] != "log" {
		t.Errorf("open filters = %+v", f)
	}
	if cfg.Files.MaxOpenBytes != 2048 {
		t.Errorf("max_open_bytes = %d", cfg.Files.MaxOpenBytes)
	}
	if cfg.Notifications.Backend != "beeep" || cfg.Notifications.HideNotice {
		t.Errorf("notifications = %+v", cfg.Notifications)
	}
	if cfg.Shutdown.GetGrace() != 500*time.Millisecond {
		t.Errorf("grace = %v", cfg.Shutdown.GetGrace())
	}
	if cfg.Log.File != "/var/log/wallboard.log" || cfg.Log.Level != "debug" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := LoadFs(afero.NewMemMapFs(), "/nope/config.yaml"); err == nil {
		t.Error("LoadFs() error = nil, want error for missing explicit file")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("WALLBOARD_APP_LOCALE", "th")
	t.Setenv("WALLBOARD_SHUTDOWN_GRACE", "10s")

	cfg, err := LoadFs(afero.NewMemMapFs(), "")
	if err != nil {
		t.Fatalf("LoadFs() error = %v", err)
	}
	if cfg.GetLocale() != "th" {
		t.Errorf("locale = %q, want th", cfg.GetLocale())
	}
	if cfg.Shutdown.GetGrace() != 10*time.Second {
		t.Errorf("grace = %v, want 10s", cfg.Shutdown.GetGrace())
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:           AppConfig{Locale: "en"},
			Tray:          TrayConfig{Statuses: []string{"Available", "Busy", "Break"}},
			Notifications: NotificationsConfig{Backend: "auto"},
			Shutdown:      ShutdownConfig{Grace: "3s"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty statuses use defaults", func(c *Config) { c.Tray.Statuses = nil }, ""},
		{"too few statuses", func(c *Config) { c.Tray.Statuses = []string{"Available", "Busy"} }, "at least 3"},
		{"duplicate status", func(c *Config) { c.Tray.Statuses = []string{"Busy", "Busy", "Break"} }, "duplicate"},
		{"blank status", func(c *Config) { c.Tray.Statuses = []string{"Busy", " ", "Break"} }, "empty"},
		{"unknown locale", func(c *Config) { c.App.Locale = "fr" }, "app.locale"},
		{"unknown backend", func(c *Config) { c.Notifications.Backend = "growl" }, "notifications.backend"},
		{"negative width", func(c *Config) { c.Window.Width = -1 }, "window.width"},
		{"bad grace", func(c *Config) { c.Shutdown.Grace = "soon" }, "shutdown.grace"},
		{"negative max bytes", func(c *Config) { c.Files.MaxOpenBytes = -1 }, "max_open_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetGrace_Invalid(t *testing.T) {
	c := ShutdownConfig{Grace: "later"}
	if c.GetGrace() != 3*time.Second {
		t.Errorf("GetGrace() = %v, want fallback 3s", c.GetGrace())
	}
}
