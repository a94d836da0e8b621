package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// headerRe matches "<d/m/y, h:mm> - <sender>: <message>". The date slots are
// checked for digit counts only, never for calendar validity. The sender
// runs up to the first colon, so "Bob: Re: x" yields sender "Bob".
var headerRe = regexp.MustCompile(`^\s*(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}) - ([^:]+): (.*)$`)

// Options tunes a parse. The zero value gives the reference behaviour.
type Options struct {
	// JoinContinuations appends unmatched lines that follow a message to
	// that message's text instead of dropping them. Off by default: it
	// changes the record content relative to the plain line grammar.
	JoinContinuations bool
}

// ParseLine applies the header grammar to a single physical line.
func ParseLine(line string) (Message, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return Message{}, false
	}
	return Message{
		Timestamp: strings.TrimSpace(m[1]),
		Sender:    strings.TrimSpace(m[2]),
		Text:      strings.TrimSpace(m[3]),
	}, true
}

// builder accumulates records line by line; it holds no state beyond one parse.
type builder struct {
	opts    Options
	log     *ChatLog
	lineNum int
	joining bool
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts, log: &ChatLog{Messages: []Message{}}}
}

func (b *builder) add(line string) {
	b.lineNum++
	if b.lineNum == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	line = strings.TrimSuffix(line, "\r")

	if msg, ok := ParseLine(line); ok {
		msg.Line = b.lineNum
		b.log.Messages = append(b.log.Messages, msg)
		b.joining = b.opts.JoinContinuations
		return
	}

	if b.joining {
		last := &b.log.Messages[len(b.log.Messages)-1]
		last.Text = strings.TrimSpace(last.Text + "\n" + line)
	}
}

// Parse reads an export line by line. Content never causes an error; only a
// failing reader does.
func Parse(r io.Reader, opts Options) (*ChatLog, error) {
	b := newBuilder(opts)

	// lines have no length limit: an oversized line is content, not a read failure
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line != "" {
			b.add(strings.TrimSuffix(line, "\n"))
		}
		if err == io.EOF {
			return b.log, nil
		}
	}
}

// ParseString parses an in-memory export. Empty input gives an empty log.
func ParseString(text string, opts Options) *ChatLog {
	b := newBuilder(opts)
	if text == "" {
		return b.log
	}
	// a trailing newline terminates the last line rather than opening a new one
	text = strings.TrimSuffix(text, "\n")
	for _, line := range strings.Split(text, "\n") {
		b.add(line)
	}
	return b.log
}

// ParseFile opens and parses an export on disk. Failure to open or read the
// file is reported as ErrSourceUnavailable.
func ParseFile(path string, opts Options) (*ChatLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	log, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, path, err)
	}
	return log, nil
}

// ParseUpload parses an uploaded export. A nil reader means nothing was
// uploaded and yields ErrSourceUnavailable.
func ParseUpload(r io.Reader, opts Options) (*ChatLog, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no file uploaded", ErrSourceUnavailable)
	}
	log, err := Parse(r, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %w", ErrSourceUnavailable, err)
	}
	return log, nil
}
