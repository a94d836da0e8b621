package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string
	var reindex bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web viewer for uploaded and indexed chat exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			opts := web.Options{
				Parse:       parse.Options{JoinContinuations: cfg.JoinContinuations},
				Self:        cfg.Self,
				UploadCache: cfg.UploadCache,
				Logger:      logger,
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				logger.Warn("index unavailable, serving uploads only", "error", err)
			} else {
				defer db.Close()
				if reindex {
					stats, err := index.IndexAll(db, cfg.ExportsRoot, opts.Parse)
					if err != nil {
						return fmt.Errorf("index: %w", err)
					}
					logger.Info("index updated", "stats", stats.String())
				}
				opts.Source = db
			}

			srv, err := web.NewServer(opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&reindex, "index", false, "Update the index before serving")

	return cmd
}
