package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/color"
	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/thread"
)

func sendersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "senders [file]",
		Short: "List the distinct senders of a chat export with their colors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, _, err := loadExport(args, parse.Options{JoinContinuations: cfg.JoinContinuations})
			if err != nil {
				return err
			}

			counts := make(map[string]int64)
			for _, m := range log.Messages {
				counts[m.Sender]++
			}
			senders := thread.Senders(log)
			self := thread.DefaultSelf(senders)
			if containsSender(senders, cfg.Self) {
				self = cfg.Self
			}

			out := cmd.OutOrStdout()
			for _, s := range senders {
				mark := " "
				if s == self {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\t%s\t%s messages\n", mark, color.ForSender(s), s, humanize.Comma(counts[s]))
			}
			return nil
		},
	}
}
