package api

import (
	"encoding/json"
	"time"

	"github.com/killallgit/conduit/pkg/chat"
)

// Assistant is one configured agent on the runtime.
type Assistant struct {
	AssistantID string         `json:"assistant_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	GraphID     string         `json:"graph_id"`
	Context     map[string]any `json:"context,omitempty"`
}

// CreateAssistantRequest is the payload for registering a new assistant.
type CreateAssistantRequest struct {
	GraphID     string         `json:"graph_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// Thread is one persistent conversation context.
type Thread struct {
	ThreadID string         `json:"thread_id"`
	Status   string         `json:"status,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ThreadSearchResponse wraps the thread search results.
type ThreadSearchResponse struct {
	Threads []Thread `json:"threads"`
}

// ThreadState is one persisted snapshot of a thread, as returned by the
// history endpoint.
type ThreadState struct {
	Values ThreadValues `json:"values"`
}

// ThreadValues holds the thread's message log.
type ThreadValues struct {
	Messages []chat.Message `json:"messages"`
}

// RunInput is the input payload for creating or streaming a run.
type RunInput struct {
	Messages []chat.Message `json:"messages"`
}

// CreateRunRequest starts a run against a thread.
type CreateRunRequest struct {
	AssistantID string   `json:"assistant_id"`
	Input       RunInput `json:"input"`
}

// Cron is a recurring scheduled invocation of an assistant.
type Cron struct {
	CronID              string         `json:"cron_id"`
	AssistantID         string         `json:"assistant_id"`
	Schedule            string         `json:"schedule"`
	RequiredFields      map[string]any `json:"required_fields,omitempty"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	Enabled             bool           `json:"enabled"`
}

// CreateCronRequest registers a new cron job.
type CreateCronRequest struct {
	AssistantID         string         `json:"assistant_id"`
	Schedule            string         `json:"schedule"`
	RequiredFields      map[string]any `json:"required_fields,omitempty"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
}

// UpdateCronRequest modifies an existing cron job. Nil fields are left
// unchanged by the server.
type UpdateCronRequest struct {
	Schedule            *string        `json:"schedule,omitempty"`
	RequiredFields      map[string]any `json:"required_fields,omitempty"`
	SpecialInstructions *string        `json:"special_instructions,omitempty"`
	Enabled             *bool          `json:"enabled,omitempty"`
}

// CronRun is one recorded activation of a cron job.
type CronRun struct {
	CronRunID   string          `json:"cron_run_id"`
	CronID      string          `json:"cron_id"`
	Status      string          `json:"status"`
	Output      json.RawMessage `json:"output,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
}
