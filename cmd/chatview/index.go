package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/parse"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan and index the chat exports under exports_root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.ExportsRoot)

			stats, err := index.IndexAll(db, cfg.ExportsRoot, parse.Options{JoinContinuations: cfg.JoinContinuations})
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}

// openIndex loads the config, opens the database and brings the index up
// to date. Index errors are reported but not fatal.
func openIndex() (*config.Config, *index.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	if _, err := index.IndexAll(db, cfg.ExportsRoot, parse.Options{JoinContinuations: cfg.JoinContinuations}); err != nil {
		fmt.Fprintf(os.Stderr, "index: %v\n", err)
	}
	return cfg, db, nil
}
