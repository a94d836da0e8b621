package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/output"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/render"
	"github.com/Zuo-Peng/chatview/internal/thread"
)

// loadExport parses the export at path, or stdin for "-" and for no path
// when stdin is piped.
func loadExport(args []string, opts parse.Options) (*parse.ChatLog, string, error) {
	var log *parse.ChatLog
	var err error
	name := "stdin"

	switch {
	case len(args) == 1 && args[0] != "-":
		name = filepath.Base(args[0])
		log, err = parse.ParseFile(args[0], opts)
	case len(args) == 1 || !term.IsTerminal(int(os.Stdin.Fd())):
		log, err = parse.ParseUpload(os.Stdin, opts)
	default:
		log, err = parse.ParseUpload(nil, opts)
	}
	if err == nil {
		err = log.Err()
	}
	return log, name, userError(err)
}

// userError maps the parser signals to the messages shown to users.
func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, parse.ErrSourceUnavailable):
		return fmt.Errorf("please provide a chat export (%w)", err)
	case errors.Is(err, parse.ErrNoRecords):
		return errors.New("could not parse any messages: is this a chat export?")
	default:
		return err
	}
}

// terminalWidth returns configured, else the width of stdout when it is a
// terminal, else 0.
func terminalWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func writeThread(ctx context.Context, w io.Writer, log *parse.ChatLog, title, format string, opts thread.Options, width int) error {
	if format == "terminal" {
		t := thread.Build(log, opts)
		out, _ := render.RenderThread(t, render.Options{
			Hit:   -1,
			Width: width,
			Title: title,
		})
		_, err := io.WriteString(w, out)
		return err
	}

	f, err := output.New(format)
	if err != nil {
		return err
	}
	filtered := &parse.ChatLog{Messages: thread.Filter(log, opts.Sender)}
	return f.Format(ctx, filtered, w)
}

func showCmd() *cobra.Command {
	var sender, me, format string
	var width int
	var join bool

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Render a chat export as a color-coded thread",
		Long: `Render a chat export as a thread: one block per message, the sender's
name in a stable color, your own messages right-aligned.

With --format text|tsv|json|yaml the parsed records are written instead,
narrowed by --sender. Reads stdin when file is "-" or omitted and piped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := parse.Options{JoinContinuations: join || cfg.JoinContinuations}
			log, name, err := loadExport(args, opts)
			if err != nil {
				return err
			}

			if me == "" {
				me = cfg.Self
			}
			if !containsSender(thread.Senders(log), me) {
				me = ""
			}
			if width == 0 {
				width = terminalWidth(cfg.Width)
			}

			return writeThread(cmd.Context(), cmd.OutOrStdout(), log, name, format, thread.Options{
				Self:   me,
				Sender: sender,
			}, width)
		},
	}

	cmd.Flags().StringVar(&sender, "sender", thread.All, "Show only messages from this sender")
	cmd.Flags().StringVar(&me, "me", "", "Sender whose messages are your own (default \"You\" or first sender)")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|text|tsv|json|yaml")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = terminal width)")
	cmd.Flags().BoolVar(&join, "join-continuations", false, "Append unmatched lines to the previous message")

	return cmd
}

func containsSender(senders []string, name string) bool {
	for _, s := range senders {
		if s == name {
			return true
		}
	}
	return false
}
