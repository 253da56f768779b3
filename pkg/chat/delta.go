package chat

import "encoding/json"

// ToolCallChunk is the fragment of a tool invocation carried by a
// streamed delta. Only the name matters to the client; arguments stream
// in later chunks and are never rendered.
type ToolCallChunk struct {
	Name string `json:"name"`
}

// Delta is one raw streamed message fragment from the runtime's
// messages-mode stream.
type Delta struct {
	Type           string          `json:"type"`
	Content        string          `json:"-"`
	ToolCallChunks []ToolCallChunk `json:"tool_call_chunks"`
}

// deltaWire carries the raw content value so string and part-list
// encodings can both be accepted.
type deltaWire struct {
	Type           string          `json:"type"`
	Content        json.RawMessage `json:"content"`
	ToolCallChunks []ToolCallChunk `json:"tool_call_chunks"`
}

func (d *Delta) UnmarshalJSON(data []byte) error {
	var wire deltaWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	d.Type = wire.Type
	d.ToolCallChunks = wire.ToolCallChunks

	for _, part := range decodeContentParts(wire.Content) {
		d.Content += part.Text
	}
	return nil
}

// ToolCallName returns the first named tool call chunk, if any.
func (d Delta) ToolCallName() (string, bool) {
	for _, chunk := range d.ToolCallChunks {
		if chunk.Name != "" {
			return chunk.Name, true
		}
	}
	return "", false
}
