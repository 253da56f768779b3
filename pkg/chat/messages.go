package chat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentPart is one ordered piece of a message body. The runtime sends
// message content either as a bare string or as a list of typed parts;
// both are normalized onto this shape.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is a single conversation entry as the runtime reports it.
type Message struct {
	ID        string        `json:"id,omitempty"`
	Role      string        `json:"type"`
	Parts     []ContentPart `json:"content"`
	Timestamp time.Time     `json:"-"`
}

const (
	RoleHuman = "human"
	RoleAI    = "ai"
	RoleTool  = "tool"
)

func NewHumanMessage(content string) Message {
	return Message{
		Role:      RoleHuman,
		Parts:     []ContentPart{{Type: "text", Text: strings.TrimSpace(content)}},
		Timestamp: time.Now(),
	}
}

func NewAIMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAI,
		Parts:     []ContentPart{{Type: "text", Text: content}},
		Timestamp: time.Now(),
	}
}

func (m Message) IsHuman() bool {
	return m.Role == RoleHuman
}

func (m Message) IsAI() bool {
	return m.Role == RoleAI
}

func (m Message) IsTool() bool {
	return m.Role == RoleTool
}

// Text returns the message body as a single string, parts in order.
func (m Message) Text() string {
	if len(m.Parts) == 1 {
		return m.Parts[0].Text
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text()) == ""
}

// messageWire mirrors the runtime's message JSON, whose content field is
// either a string or a list of parts.
type messageWire struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON accepts both content encodings the runtime produces.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire messageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	m.ID = wire.ID
	m.Role = wire.Type
	m.Parts = decodeContentParts(wire.Content)
	return nil
}

// decodeContentParts normalizes a raw content value onto []ContentPart.
// Scalar strings are promoted to a one-element sequence; anything
// unrecognized decodes to no parts rather than an error.
func decodeContentParts(raw json.RawMessage) []ContentPart {
	if len(raw) == 0 {
		return nil
	}

	var scalar string
	if err := json.Unmarshal(raw, &scalar); err == nil {
		if scalar == "" {
			return nil
		}
		return []ContentPart{{Type: "text", Text: scalar}}
	}

	var parts []ContentPart
	if err := json.Unmarshal(raw, &parts); err == nil {
		return parts
	}

	return nil
}
