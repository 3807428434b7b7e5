package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/username/wallboard-shell/internal/messages"
	"github.com/username/wallboard-shell/internal/notify"
)

// Config represents application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" json:"app"`
	Window        WindowConfig        `mapstructure:"window" json:"window"`
	Tray          TrayConfig          `mapstructure:"tray" json:"tray"`
	Files         FilesConfig         `mapstructure:"files" json:"files"`
	Notifications NotificationsConfig `mapstructure:"notifications" json:"notifications"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown" json:"shutdown"`
	Log           LogConfig           `mapstructure:"log" json:"log"`
}

// AppConfig represents application identity
type AppConfig struct {
	Name   string `mapstructure:"name" json:"name"`
	Locale string `mapstructure:"locale" json:"locale"` // "en" or "th"
}

// WindowConfig represents the main window
type WindowConfig struct {
	Title       string `mapstructure:"title" json:"title"`
	Width       int    `mapstructure:"width" json:"width"`
	Height      int    `mapstructure:"height" json:"height"`
	StartHidden bool   `mapstructure:"start_hidden" json:"start_hidden"`
}

// TrayConfig represents the tray icon and menu
type TrayConfig struct {
	IconPath     string   `mapstructure:"icon_path" json:"icon_path"`
	TemplateIcon bool     `mapstructure:"template_icon" json:"template_icon"` // monochrome icon on macOS
	Tooltip      string   `mapstructure:"tooltip" json:"tooltip"`
	Statuses     []string `mapstructure:"statuses" json:"statuses"`
}

// FileFilterConfig represents one file dialog filter group
type FileFilterConfig struct {
	Name       string   `mapstructure:"name" json:"name"`
	Extensions []string `mapstructure:"extensions" json:"extensions"`
}

// FilesConfig represents the open/save file operations
type FilesConfig struct {
	OpenFilters     []FileFilterConfig `mapstructure:"open_filters" json:"open_filters"`
	SaveFilters     []FileFilterConfig `mapstructure:"save_filters" json:"save_filters"`
	DefaultFileName string             `mapstructure:"default_file_name" json:"default_file_name"`
	MaxOpenBytes    int64              `mapstructure:"max_open_bytes" json:"max_open_bytes"`
}

// NotificationsConfig represents the notification backend
type NotificationsConfig struct {
	Backend    string `mapstructure:"backend" json:"backend"` // "auto", "beeep" or "dbus"
	IconPath   string `mapstructure:"icon_path" json:"icon_path"`
	HideNotice bool   `mapstructure:"hide_notice" json:"hide_notice"` // notify once when the window is first hidden
}

// ShutdownConfig represents shutdown behaviour
type ShutdownConfig struct {
	Grace string `mapstructure:"grace" json:"grace"` // how long Quit waits for running operations
}

// LogConfig represents logging
type LogConfig struct {
	File  string `mapstructure:"file" json:"file"`
	Level string `mapstructure:"level" json:"level"`
}

// Load loads configuration from file. A missing file is not an error when no
// explicit path is given.
func Load(configPath string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), configPath)
}

// LoadFs loads configuration from fs.
func LoadFs(fs afero.Fs, configPath string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.wallboard")
		v.AddConfigPath("/etc/wallboard")
	}

	// Read environment variables, e.g. WALLBOARD_APP_LOCALE
	v.SetEnvPrefix("wallboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Agent Wallboard")
	v.SetDefault("app.locale", "en")
	v.SetDefault("window.title", "Agent Wallboard")
	v.SetDefault("window.width", 1200)
	v.SetDefault("window.height", 800)
	v.SetDefault("tray.template_icon", true)
	v.SetDefault("tray.statuses", []string{"Available", "Busy", "Break"})
	v.SetDefault("files.default_file_name", "export.txt")
	v.SetDefault("files.max_open_bytes", 10<<20)
	v.SetDefault("notifications.backend", notify.BackendAuto)
	v.SetDefault("notifications.hide_notice", true)
	v.SetDefault("shutdown.grace", "3s")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !messages.Supported(c.GetLocale()) {
		return fmt.Errorf("app.locale must be one of %v, got '%s'", messages.Locales(), c.App.Locale)
	}

	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window.width and window.height must be positive")
	}

	statuses := c.Tray.GetStatuses()
	if len(statuses) < 3 {
		return fmt.Errorf("tray.statuses needs at least 3 entries, got %d", len(statuses))
	}
	seen := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("tray.statuses must not contain empty entries")
		}
		if seen[s] {
			return fmt.Errorf("tray.statuses contains duplicate '%s'", s)
		}
		seen[s] = true
	}

	switch c.Notifications.Backend {
	case "", notify.BackendAuto, notify.BackendBeeep, notify.BackendDBus:
	default:
		return fmt.Errorf("notifications.backend must be 'auto', 'beeep' or 'dbus', got '%s'", c.Notifications.Backend)
	}

	if c.Files.MaxOpenBytes < 0 {
		return fmt.Errorf("files.max_open_bytes must not be negative")
	}

	if c.Shutdown.Grace != "" {
		if d, err := time.ParseDuration(c.Shutdown.Grace); err != nil || d < 0 {
			return fmt.Errorf("shutdown.grace must be a non-negative duration, got '%s'", c.Shutdown.Grace)
		}
	}

	return nil
}

// GetLocale returns the UI locale
func (c *Config) GetLocale() string {
	if c.App.Locale == "" {
		return "en"
	}
	return c.App.Locale
}

// GetStatuses returns the tray status choices
func (c *TrayConfig) GetStatuses() []string {
	if len(c.Statuses) == 0 {
		return []string{"Available", "Busy", "Break"}
	}
	return c.Statuses
}

// GetOpenFilters returns the open dialog filters
func (c *FilesConfig) GetOpenFilters() []FileFilterConfig {
	if len(c.OpenFilters) == 0 {
		return []FileFilterConfig{
			{Name: "Text Files", Extensions: []string{"txt", "json", "csv"}},
			{Name: "All Files", Extensions: []string{"*"}},
		}
	}
	return c.OpenFilters
}

// GetSaveFilters returns the save dialog filters
func (c *FilesConfig) GetSaveFilters() []FileFilterConfig {
	if len(c.SaveFilters) == 0 {
		return []FileFilterConfig{
			{Name: "Text Files", Extensions: []string{"txt"}},
			{Name: "CSV Files", Extensions: []string{"csv"}},
			{Name: "JSON Files", Extensions: []string{"json"}},
		}
	}
	return c.SaveFilters
}

// GetGrace returns how long shutdown waits for running operations
func (c *ShutdownConfig) GetGrace() time.Duration {
	if c.Grace == "" {
		return 3 * time.Second
	}
	duration, err := time.ParseDuration(c.Grace)
	if err != nil {
		return 3 * time.Second
	}
	return duration
}

// GetWindowSize returns the window size in pixels
func (c *WindowConfig) GetWindowSize() (width, height int) {
	width, height = c.Width, c.Height
	if width == 0 {
		width = 1200
	}
	if height == 0 {
		height = 800
	}
	return width, height
}
