// Package messages holds the localized user-facing texts of the shell:
// tray labels, notification texts and agent event templates.
package messages

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
)

// Agent event keys with a dedicated template.
const (
	EventLogin        = "login"
	EventLogout       = "logout"
	EventStatusChange = "status_change"
	EventCallReceived = "call_received"
	EventCallEnded    = "call_ended"
)

const fallbackKey = ""

// Catalog is the set of texts for one locale.
type Catalog struct {
	Locale string

	AppName           string
	AgentEventTitle   string
	StillRunningTitle string
	StillRunningBody  string
	StatusTitle       string
	StatusBodyFormat  string // %s is the new status

	TrayTooltip  string
	TrayShow     string
	TrayStatus   string
	TraySettings string
	TrayExit     string

	agentEvents map[string]*template.Template
}

// agentEventData is the template input for agent event messages.
type agentEventData struct {
	Agent     string
	EventType string
	NewStatus string
	Duration  string
}

var catalogs = map[string]struct {
	texts  Catalog
	events map[string]string
}{
	"en": {
		texts: Catalog{
			AppName:           "Agent Wallboard",
			AgentEventTitle:   "Agent Wallboard Update",
			StillRunningTitle: "Agent Wallboard",
			StillRunningBody:  "The app is still running in the system tray\nRight-click the icon to open the menu",
			StatusTitle:       "Status changed",
			StatusBodyFormat:  "Status changed to %s",
			TrayTooltip:       "Agent Wallboard - Desktop App",
			TrayShow:          "📊 Show Wallboard",
			TrayStatus:        "🔄 Change Status",
			TraySettings:      "⚙️ Settings",
			TrayExit:          "❌ Exit",
		},
		events: map[string]string{
			EventLogin:        "🟢 {{.Agent}} logged in",
			EventLogout:       "🔴 {{.Agent}} logged out",
			EventStatusChange: "🔄 {{.Agent}} changed status to {{.NewStatus}}",
			EventCallReceived: "📞 {{.Agent}} received a new call",
			EventCallEnded:    "📞 {{.Agent}} ended the call ({{.Duration}} seconds)",
			fallbackKey:       "📊 {{.Agent}}: {{.EventType}}",
		},
	},
	"th": {
		texts: Catalog{
			AppName:           "Agent Wallboard",
			AgentEventTitle:   "Agent Wallboard Update",
			StillRunningTitle: "Agent Wallboard",
			StillRunningBody:  "แอปยังทำงานอยู่ใน system tray\nคลิกขวาที่ icon เพื่อเปิดเมนู",
			StatusTitle:       "สถานะเปลี่ยนแล้ว",
			StatusBodyFormat:  "เปลี่ยนสถานะเป็น %s แล้ว",
			TrayTooltip:       "Agent Wallboard - Desktop App",
			TrayShow:          "📊 แสดง Wallboard",
			TrayStatus:        "🔄 เปลี่ยนสถานะ",
			TraySettings:      "⚙️ ตั้งค่า",
			TrayExit:          "❌ ออกจากโปรแกรม",
		},
		events: map[string]string{
			EventLogin:        "🟢 {{.Agent}} เข้าสู่ระบบแล้ว",
			EventLogout:       "🔴 {{.Agent}} ออกจากระบบแล้ว",
			EventStatusChange: "🔄 {{.Agent}} เปลี่ยนสถานะเป็น {{.NewStatus}}",
			EventCallReceived: "📞 {{.Agent}} รับสายใหม่",
			EventCallEnded:    "📞 {{.Agent}} จบการโทร ({{.Duration}} วินาที)",
			fallbackKey:       "📊 {{.Agent}}: {{.EventType}}",
		},
	},
}

// Locales returns the supported locale codes.
func Locales() []string {
	locales := make([]string, 0, len(catalogs))
	for l := range catalogs {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Supported reports whether locale has a catalog.
func Supported(locale string) bool {
	_, ok := catalogs[locale]
	return ok
}

// Load returns the catalog for locale.
func Load(locale string) (*Catalog, error) {
	entry, ok := catalogs[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale: %s", locale)
	}

	c := entry.texts
	c.Locale = locale
	c.agentEvents = make(map[string]*template.Template, len(entry.events))

	for key, text := range entry.events {
		tmpl, err := template.New(key).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template %q: %w", locale, key, err)
		}
		c.agentEvents[key] = tmpl
	}

	return &c, nil
}

// KnownAgentEvent reports whether eventType has a dedicated template.
func (c *Catalog) KnownAgentEvent(eventType string) bool {
	if eventType == fallbackKey {
		return false
	}
	_, ok := c.agentEvents[eventType]
	return ok
}

// AgentEvent renders the message for an agent event. Unknown event types use
// the fallback template "<agent>: <eventType>".
func (c *Catalog) AgentEvent(agentName, eventType string, details map[string]any) string {
	tmpl, ok := c.agentEvents[eventType]
	if !ok || eventType == fallbackKey {
		tmpl = c.agentEvents[fallbackKey]
	}

	data := agentEventData{
		Agent:     agentName,
		EventType: eventType,
		NewStatus: detail(details, "newStatus"),
		Duration:  detail(details, "duration"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("%s: %s", agentName, eventType)
	}
	return buf.String()
}

// StatusBody returns the confirmation text for a status change.
func (c *Catalog) StatusBody(status string) string {
	return fmt.Sprintf(c.StatusBodyFormat, status)
}

func detail(details map[string]any, key string) string {
	v, ok := details[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// JSON numbers arrive as float64
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
