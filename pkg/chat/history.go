package chat

// NormalizeHistory prepares a persisted message page for display. Tool
// messages and empty AI messages are internal scaffolding and are
// dropped; consecutive AI messages are then merged into one entry whose
// parts concatenate in original order.
func NormalizeHistory(messages []Message) []Message {
	filtered := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.IsHuman() {
			filtered = append(filtered, msg)
			continue
		}
		if msg.IsAI() && !msg.IsEmpty() {
			filtered = append(filtered, msg)
		}
	}

	return mergeAdjacentAI(filtered)
}

// mergeAdjacentAI collapses runs of consecutive AI messages. The first
// message of a run keeps its id; later parts are appended in order.
func mergeAdjacentAI(messages []Message) []Message {
	merged := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.IsAI() && msg.IsAI() {
				parts := make([]ContentPart, 0, len(last.Parts)+len(msg.Parts))
				parts = append(parts, last.Parts...)
				parts = append(parts, msg.Parts...)
				last.Parts = parts
				continue
			}
		}
		merged = append(merged, msg)
	}
	return merged
}

// ToTranscript builds a transcript of finalized entries from a
// normalized history page.
func ToTranscript(messages []Message) Transcript {
	t := NewTranscript()
	for _, msg := range messages {
		t = Append(t, msg)
	}
	return t
}
