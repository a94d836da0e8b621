package parse

import "errors"

var (
	// ErrSourceUnavailable means the export could not be obtained at all
	// (missing file, failed read, empty upload field).
	ErrSourceUnavailable = errors.New("chat export unavailable")

	// ErrNoRecords means the export was read but no line matched the
	// message header shape.
	ErrNoRecords = errors.New("no messages parsed")
)

// Message is one parsed export line. Fields are trimmed but never escaped.
type Message struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Sender    string `json:"sender" yaml:"sender"`
	Text      string `json:"text" yaml:"text"`
	Line      int    `json:"-" yaml:"-"` // 1-based line in the source
}

// ChatLog is the ordered result of one parse, in order of appearance.
type ChatLog struct {
	Messages []Message
}

// Len returns the number of parsed messages.
func (c *ChatLog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}

// Err reports ErrNoRecords for an empty log so callers can tell
// "parsed nothing" apart from a successful parse.
func (c *ChatLog) Err() error {
	if c.Len() == 0 {
		return ErrNoRecords
	}
	return nil
}
