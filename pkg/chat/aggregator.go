package chat

import (
	"strings"

	"github.com/killallgit/conduit/pkg/logger"
)

// Aggregator folds streamed deltas into a transcript. While a response
// is streaming it maintains a single pending entry holding everything
// received so far; on completion that entry is replaced by a finalized
// message with a fresh id.
type Aggregator struct {
	transcript Transcript
	buffer     strings.Builder
	activeTool string
}

func NewAggregator(transcript Transcript) *Aggregator {
	return &Aggregator{transcript: transcript}
}

// OnDeltas consumes one messages-mode event. Tool call chunks record
// the active tool and suppress nothing textual; content fragments clear
// it and extend the streaming buffer. The pending entry is rewritten
// once per event, not once per fragment.
func (a *Aggregator) OnDeltas(deltas []Delta) {
	for _, delta := range deltas {
		if name, ok := delta.ToolCallName(); ok {
			a.activeTool = name
			logger.Debug("Tool call started: %s", name)
			continue
		}
		if delta.Content != "" {
			a.activeTool = ""
			a.buffer.WriteString(delta.Content)
		}
	}

	if a.buffer.Len() > 0 {
		a.transcript = SetPending(a.transcript, a.buffer.String())
	}
}

// Finalize ends the streaming turn: the pending entry is dropped and,
// if anything was buffered, a finalized AI message takes its place.
func (a *Aggregator) Finalize() {
	a.transcript = DropPending(a.transcript)
	if a.buffer.Len() > 0 {
		a.transcript = Append(a.transcript, NewAIMessage(a.buffer.String()))
	}
	a.buffer.Reset()
	a.activeTool = ""
}

// Abandon discards the in-flight response without finalizing it: the
// pending entry and buffered fragments are dropped, finalized entries
// stay. A failed stream must not leak its partial text into the next
// turn's reply.
func (a *Aggregator) Abandon() {
	a.transcript = DropPending(a.transcript)
	a.buffer.Reset()
	a.activeTool = ""
}

// Reset discards all in-flight state without finalizing. Used when the
// owning view switches threads mid-stream.
func (a *Aggregator) Reset(transcript Transcript) {
	a.transcript = transcript
	a.buffer.Reset()
	a.activeTool = ""
}

// Transcript returns the current conversation view.
func (a *Aggregator) Transcript() Transcript {
	return a.transcript
}

// StreamingContent returns the accumulated text of the in-flight
// response.
func (a *Aggregator) StreamingContent() string {
	return a.buffer.String()
}

// ActiveTool reports the tool call currently in progress, if any.
func (a *Aggregator) ActiveTool() (string, bool) {
	return a.activeTool, a.activeTool != ""
}

// AddUserMessage appends the user's input as a finalized entry.
func (a *Aggregator) AddUserMessage(content string) {
	a.transcript = Append(a.transcript, NewHumanMessage(content))
}
