package chat

// EntryState distinguishes a finalized transcript entry from the single
// mutable entry that mirrors an in-flight streamed response.
type EntryState int

const (
	EntryFinal EntryState = iota
	EntryPending
)

// Entry is one transcript row: a message plus its lifecycle state.
// Pending entries have no id; a stable id is assigned on finalize.
type Entry struct {
	State   EntryState
	Message Message
}

// Transcript is the ordered conversation view. At most one entry is
// pending at any time.
type Transcript struct {
	Entries []Entry
}

func NewTranscript() Transcript {
	return Transcript{Entries: make([]Entry, 0)}
}

// Append adds a finalized message to the end of the transcript.
func Append(t Transcript, msg Message) Transcript {
	entries := make([]Entry, len(t.Entries)+1)
	copy(entries, t.Entries)
	entries[len(t.Entries)] = Entry{State: EntryFinal, Message: msg}
	return Transcript{Entries: entries}
}

// SetPending replaces the transcript's pending entry with one holding
// the given accumulated content, appending it if none exists. The
// transcript never holds more than one pending entry.
func SetPending(t Transcript, content string) Transcript {
	pending := Entry{
		State: EntryPending,
		Message: Message{
			Role:  RoleAI,
			Parts: []ContentPart{{Type: "text", Text: content}},
		},
	}

	for i, entry := range t.Entries {
		if entry.State == EntryPending {
			entries := make([]Entry, len(t.Entries))
			copy(entries, t.Entries)
			entries[i] = pending
			return Transcript{Entries: entries}
		}
	}

	entries := make([]Entry, len(t.Entries)+1)
	copy(entries, t.Entries)
	entries[len(t.Entries)] = pending
	return Transcript{Entries: entries}
}

// DropPending removes the pending entry, if present.
func DropPending(t Transcript) Transcript {
	entries := make([]Entry, 0, len(t.Entries))
	for _, entry := range t.Entries {
		if entry.State == EntryPending {
			continue
		}
		entries = append(entries, entry)
	}
	return Transcript{Entries: entries}
}

// Messages returns the finalized messages in conversation order.
func Messages(t Transcript) []Message {
	result := make([]Message, 0, len(t.Entries))
	for _, entry := range t.Entries {
		if entry.State != EntryFinal {
			continue
		}
		result = append(result, entry.Message)
	}
	return result
}

// Pending returns the in-flight entry's message, if one exists.
func Pending(t Transcript) (Message, bool) {
	for _, entry := range t.Entries {
		if entry.State == EntryPending {
			return entry.Message, true
		}
	}
	return Message{}, false
}

func Len(t Transcript) int {
	return len(t.Entries)
}

func LastMessage(t Transcript) (Message, bool) {
	if len(t.Entries) == 0 {
		return Message{}, false
	}
	return t.Entries[len(t.Entries)-1].Message, true
}
