package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatview/internal/search"
	"github.com/Zuo-Peng/chatview/internal/tui"
)

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "Browse indexed chats, most recently changed first",
		Long:  `Opens a TUI panel showing all indexed chats sorted by file modification time (newest first). Type to filter by title. Prints TSV when stdout is not a terminal.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{Limit: limit}
			if len(args) == 1 {
				opts.Query = args[0]
			}

			if term.IsTerminal(int(os.Stdout.Fd())) && opts.Query == "" {
				return tui.RunList(db, cfg.Self, opts)
			}

			results, err := search.ListChats(db, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s\t%s\t%s\n", r.ChatKey, r.LastTs, tsvField(r.Title))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
