// Package output writes parsed chat records in machine- and human-readable
// formats.
package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/chatview/internal/parse"
)

// Formatter renders a chat log in a specific format.
type Formatter interface {
	// Format writes the records of log to w, in log order.
	Format(ctx context.Context, log *parse.ChatLog, w io.Writer) error

	// Name returns the format name (text, tsv, json, yaml).
	Name() string
}

// Names lists the supported formats.
var Names = []string{"text", "tsv", "json", "yaml"}

// New returns the formatter registered under name.
func New(name string) (Formatter, error) {
	switch name {
	case "text":
		return &TextFormatter{}, nil
	case "tsv":
		return &TSVFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (must be one of %s)", name, strings.Join(Names, ", "))
	}
}

func messages(log *parse.ChatLog) []parse.Message {
	if log == nil || log.Messages == nil {
		return []parse.Message{}
	}
	return log.Messages
}
