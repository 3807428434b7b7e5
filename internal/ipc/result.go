package ipc

import (
	"encoding/json"
	"errors"
)

// Reason classifies a failed operation.
type Reason string

const (
	ReasonCancelled          Reason = "cancelled"
	ReasonIOFailure          Reason = "io_failure"
	ReasonShuttingDown       Reason = "shutting_down"
	ReasonInvalidRequest     Reason = "invalid_request"
	ReasonNotificationFailed Reason = "notification_failed"
	ReasonInternal           Reason = "internal"
)

var (
	// ErrCancelled is returned when the user dismissed a dialog.
	ErrCancelled = errors.New("cancelled by user")

	// ErrShuttingDown is returned for operations requested after shutdown intent.
	ErrShuttingDown = errors.New("application is shutting down")

	// ErrInvalidRequest is returned for malformed payloads.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrIO wraps file read/write and dialog failures.
	ErrIO = errors.New("i/o failure")

	// ErrNotification wraps notification backend failures.
	ErrNotification = errors.New("notification failed")
)

// Result is the generic outcome of an operation.
type Result struct {
	Success   bool   `json:"success"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Reason    Reason `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// OpenFileResult is the outcome of OpOpenFile.
type OpenFileResult struct {
	Result
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Content  string `json:"content,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// MarshalJSON always includes content and size on success, so an empty file
// reads as "" and 0. Failures keep the short shape.
func (r OpenFileResult) MarshalJSON() ([]byte, error) {
	type plain OpenFileResult
	if !r.Success {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		Result
		FileName string `json:"fileName"`
		FilePath string `json:"filePath"`
		Content  string `json:"content"`
		Size     int    `json:"size"`
	}{r.Result, r.FileName, r.FilePath, r.Content, r.Size})
}

// SaveFileResult is the outcome of OpSaveFile.
type SaveFileResult struct {
	Result
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

// OK returns a successful result.
func OK() Result {
	return Result{Success: true}
}

// Failure converts err into a failed result. Cancellation is reported with
// Cancelled set and no error message.
func Failure(err error) Result {
	if err == nil {
		return Result{Success: false, Reason: ReasonInternal, Error: "unknown error"}
	}

	reason := ReasonFor(err)
	if reason == ReasonCancelled {
		return Result{Success: false, Cancelled: true, Reason: reason}
	}
	return Result{Success: false, Reason: reason, Error: err.Error()}
}

// ReasonFor maps an error to its Reason.
func ReasonFor(err error) Reason {
	switch {
	case errors.Is(err, ErrCancelled):
		return ReasonCancelled
	case errors.Is(err, ErrShuttingDown):
		return ReasonShuttingDown
	case errors.Is(err, ErrInvalidRequest):
		return ReasonInvalidRequest
	case errors.Is(err, ErrIO):
		return ReasonIOFailure
	case errors.Is(err, ErrNotification):
		return ReasonNotificationFailed
	default:
		return ReasonInternal
	}
}
