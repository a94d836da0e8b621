package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/render"
)

func previewCmd() *cobra.Command {
	var hitMsgID int
	var context, width int
	var query, me string

	cmd := &cobra.Command{
		Use:   "preview <chatKey>",
		Short: "Preview an indexed chat with context around a hit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if me == "" {
				senders, err := db.ChatSenders(args[0])
				if err != nil {
					return err
				}
				if containsSender(senders, cfg.Self) {
					me = cfg.Self
				}
			}

			out, _, err := render.RenderChat(db, args[0], render.Options{
				Hit:     hitMsgID,
				Context: context,
				Width:   width,
				Query:   query,
				Self:    me,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hitMsgID, "hit", -1, "Message ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().StringVar(&me, "me", "", "Sender whose messages are your own")

	return cmd
}
