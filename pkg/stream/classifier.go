package stream

import (
	"bytes"
	"encoding/json"

	"github.com/killallgit/conduit/pkg/chat"
	"github.com/killallgit/conduit/pkg/runs"
)

// Classify inspects a decoded payload and assigns it one of the three
// recognized event shapes. The upstream stream has no reliable frame
// discriminator, so classification is by shape, in priority order:
//
//  1. an object whose status field is "completed" is the End frame
//  2. a bare array is a batch of raw message deltas
//  3. an object with a messages field is a values snapshot
//
// Payloads matching none of these produce no event.
func Classify(payload json.RawMessage) (Event, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Event{}, false
	}

	if trimmed[0] == '[' {
		var deltas []chat.Delta
		if err := json.Unmarshal(trimmed, &deltas); err != nil {
			return Event{}, false
		}
		return Event{Kind: KindMessages, Deltas: deltas}, true
	}

	var probe struct {
		Status   string          `json:"status"`
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Event{}, false
	}

	if probe.Status == runs.StatusCompleted {
		var snapshot runs.Snapshot
		if err := json.Unmarshal(trimmed, &snapshot); err != nil {
			return Event{}, false
		}
		return Event{Kind: KindEnd, Snapshot: snapshot}, true
	}

	if len(probe.Messages) > 0 {
		var messages []chat.Message
		if err := json.Unmarshal(probe.Messages, &messages); err != nil {
			return Event{}, false
		}
		return Event{Kind: KindValues, Messages: messages}, true
	}

	return Event{}, false
}
