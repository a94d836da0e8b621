package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatview/internal/color"
	"github.com/Zuo-Peng/chatview/internal/search"
	"github.com/Zuo-Peng/chatview/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorDim     = "\033[2m"
)

// colorizeSender renders name in its sender color as a 24-bit ANSI sequence.
func colorizeSender(name string) string {
	c, err := colorful.Hex(color.ForSender(name))
	if err != nil {
		return name
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\033[1;38;2;%d;%d;%dm%s%s", r, g, b, name, sColorReset)
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func searchCmd() *cobra.Command {
	var sender, chat string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed chats",
		Long: `Search indexed chats using FTS5. Opens the interactive browser when
stdout is a terminal; otherwise prints TSV for fzf integration:
  chatKey, msgId, timestamp, sender, title, snippet

Recommended shell function (add to .zshrc):
  cvf() {
    chatview search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'chatview preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(chatview open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{
				Sender: sender,
				Chat:   chat,
				Limit:  limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], cfg.Self, opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				// first two fields (chatKey, msgID) stay plain for fzf {1} {2}
				fmt.Fprintf(out, "%s\t%d\t%s%s%s\t%s\t%s\t%s\n",
					r.ChatKey,
					r.MsgID,
					sColorDim, r.Ts, sColorReset,
					colorizeSender(tsvField(r.Sender)),
					tsvField(r.Title),
					colorizeSnippet(tsvField(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Only messages from this sender")
	cmd.Flags().StringVar(&chat, "chat", "", "Only this chat key")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
