package output

import (
	"context"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/chatview/internal/parse"
)

// JSONFormatter writes the records as an indented JSON array of
// {timestamp, sender, text} objects.
type JSONFormatter struct{}

func (f *JSONFormatter) Name() string { return "json" }

func (f *JSONFormatter) Format(ctx context.Context, log *parse.ChatLog, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(messages(log))
}

// YAMLFormatter writes the records as a YAML sequence.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Name() string { return "yaml" }

func (f *YAMLFormatter) Format(ctx context.Context, log *parse.ChatLog, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(messages(log)); err != nil {
		return err
	}
	return encoder.Close()
}
