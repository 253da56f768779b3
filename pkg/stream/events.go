package stream

import (
	"github.com/killallgit/conduit/pkg/chat"
	"github.com/killallgit/conduit/pkg/runs"
)

// EventKind identifies the semantic shape of a classified stream frame.
type EventKind int

const (
	// KindMessages carries raw streamed message deltas.
	KindMessages EventKind = iota
	// KindValues carries a full message snapshot of the thread state.
	KindValues
	// KindEnd carries the terminal run snapshot.
	KindEnd
)

func (k EventKind) String() string {
	switch k {
	case KindMessages:
		return "messages"
	case KindValues:
		return "values"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is one classified stream frame. Exactly one payload field is
// populated, selected by Kind.
type Event struct {
	Kind     EventKind
	Deltas   []chat.Delta
	Messages []chat.Message
	Snapshot runs.Snapshot
}
