package stream

import (
	"encoding/json"
	"strings"

	"github.com/killallgit/conduit/pkg/logger"
)

// FrameDecoder turns arbitrarily chunked stream text into discrete data
// payloads. Chunk boundaries carry no meaning: a partial trailing line
// is buffered until the rest of it arrives.
//
// Lines starting with "data:" carry a JSON payload. Lines starting with
// "event:" are an upstream naming hint only; the event kind actually
// used is re-derived from the payload shape, so the hint is dropped.
// Anything else, including blank record separators, is ignored.
type FrameDecoder struct {
	buffer string
}

func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

const (
	dataPrefix  = "data:"
	eventPrefix = "event:"
)

// Feed consumes one chunk and returns the JSON payloads of every
// complete data line it finishes. Malformed JSON is dropped silently;
// a single bad frame must never abort the stream.
func (d *FrameDecoder) Feed(chunk []byte) []json.RawMessage {
	d.buffer += string(chunk)

	lines := strings.Split(d.buffer, "\n")
	// The final fragment may still be mid-line; keep it for the next feed.
	d.buffer = lines[len(lines)-1]

	var payloads []json.RawMessage
	for _, line := range lines[:len(lines)-1] {
		if payload, ok := d.decodeLine(line); ok {
			payloads = append(payloads, payload)
		}
	}
	return payloads
}

// Flush decodes whatever remains in the buffer as a final line. Called
// when the stream source is exhausted.
func (d *FrameDecoder) Flush() []json.RawMessage {
	line := d.buffer
	d.buffer = ""

	if payload, ok := d.decodeLine(line); ok {
		return []json.RawMessage{payload}
	}
	return nil
}

func (d *FrameDecoder) decodeLine(line string) (json.RawMessage, bool) {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, false
	}

	if strings.HasPrefix(trimmed, eventPrefix) {
		return nil, false
	}
	if !strings.HasPrefix(trimmed, dataPrefix) {
		return nil, false
	}

	payload := strings.TrimSpace(trimmed[len(dataPrefix):])
	if !json.Valid([]byte(payload)) {
		logger.Debug("Dropping malformed stream frame: %.80s", payload)
		return nil, false
	}

	return json.RawMessage(payload), true
}
