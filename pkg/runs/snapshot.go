package runs

import "encoding/json"

// Run statuses reported by the runtime.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
	StatusFailed    = "failed"
)

// Snapshot is a read-only copy of a run's state as the runtime reports
// it. The runtime owns the run; the client only observes.
type Snapshot struct {
	RunID        string          `json:"run_id"`
	ThreadID     string          `json:"thread_id"`
	Status       string          `json:"status"`
	Output       json.RawMessage `json:"output,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// IsTerminal reports whether the run can make no further transitions.
func (s Snapshot) IsTerminal() bool {
	switch s.Status {
	case StatusCompleted, StatusError, StatusFailed:
		return true
	}
	return false
}

// Failed reports whether the run ended unsuccessfully.
func (s Snapshot) Failed() bool {
	return s.Status == StatusError || s.Status == StatusFailed
}
