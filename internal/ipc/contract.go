// Package ipc defines the request/response contract between the privileged
// shell process and the sandboxed frontend: operation names, one-way channels,
// events and the result values returned across the boundary.
package ipc

// Version is the contract version exposed to the frontend.
const Version = "1.0"

// Operation names an asynchronous request/response operation.
type Operation string

const (
	OpOpenFile         Operation = "openFile"
	OpSaveFile         Operation = "saveFile"
	OpShowNotification Operation = "showNotification"
	OpNotifyAgentEvent Operation = "notifyAgentEvent"
)

// Channel names a one-way message from the frontend to the shell.
type Channel string

const (
	ChannelHideToTray Channel = "hide-to-tray"
	ChannelShowApp    Channel = "show-app"
)

// Event names a one-way message from the shell to the frontend.
type Event string

const (
	EventStatusChangedFromTray Event = "status-changed-from-tray"
)

// Operations returns the fixed set of request/response operations.
func Operations() []Operation {
	return []Operation{OpOpenFile, OpSaveFile, OpShowNotification, OpNotifyAgentEvent}
}

// Channels returns the fixed set of one-way frontend → shell channels.
func Channels() []Channel {
	return []Channel{ChannelHideToTray, ChannelShowApp}
}

// Events returns the fixed set of shell → frontend events.
func Events() []Event {
	return []Event{EventStatusChangedFromTray}
}

// Contract describes the whole IPC surface, e.g. for `wallboard contract`.
type Contract struct {
	Version    string      `json:"version"`
	Operations []Operation `json:"operations"`
	Channels   []Channel   `json:"channels"`
	Events     []Event     `json:"events"`
}

// Describe returns the current contract.
func Describe() Contract {
	return Contract{
		Version:    Version,
		Operations: Operations(),
		Channels:   Channels(),
		Events:     Events(),
	}
}

// Request is a single call across the boundary. The ID is used for log
// correlation only.
type Request struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Payload   any       `json:"payload,omitempty"`
}

// SaveFilePayload is the payload of OpSaveFile.
type SaveFilePayload struct {
	Content  string `json:"content"`
	FileName string `json:"fileName"`
}

// NotificationPayload is the payload of OpShowNotification.
type NotificationPayload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Urgent bool   `json:"urgent"`
}

// AgentEventPayload is the payload of OpNotifyAgentEvent.
type AgentEventPayload struct {
	AgentName string         `json:"agentName"`
	EventType string         `json:"eventType"`
	Details   map[string]any `json:"details,omitempty"`
}

// StatusChangeIntent is emitted when the agent status is changed from the tray.
type StatusChangeIntent struct {
	NewStatus string `json:"newStatus"`
	Timestamp string `json:"timestamp"`
}
