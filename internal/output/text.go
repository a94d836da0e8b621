package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/chatview/internal/parse"
)

// TextFormatter writes one "[timestamp] sender: text" line per message.
type TextFormatter struct{}

func (f *TextFormatter) Name() string { return "text" }

func (f *TextFormatter) Format(ctx context.Context, log *parse.ChatLog, w io.Writer) error {
	for _, m := range messages(log) {
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp, m.Sender, m.Text); err != nil {
			return err
		}
	}
	return nil
}

// TSVFormatter writes timestamp, sender and text separated by tabs. Tabs and
// newlines inside fields are replaced by spaces.
type TSVFormatter struct{}

func (f *TSVFormatter) Name() string { return "tsv" }

var tsvReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func (f *TSVFormatter) Format(ctx context.Context, log *parse.ChatLog, w io.Writer) error {
	for _, m := range messages(log) {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
			tsvReplacer.Replace(m.Timestamp),
			tsvReplacer.Replace(m.Sender),
			tsvReplacer.Replace(m.Text),
		); err != nil {
			return err
		}
	}
	return nil
}
