package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/medscribe/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process every new recording dropped into the inbox directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(signalCtx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			handler := watcher.ReportHandler(a.processor, cfg.Paths.Reports, a.log)
			w, err := watcher.New(watcher.Options{
				Dir:           cfg.Paths.Inbox,
				Extensions:    cfg.Upload.AllowedExtensions,
				MaxConcurrent: cfg.Watcher.MaxConcurrent,
			}, handler, a.log)
			if err != nil {
				a.log.Error(signalCtx, "Failed to create watcher: %v", err)
				return err
			}
			defer w.Stop()

			a.log.Info(signalCtx, "========================================")
			a.log.Info(signalCtx, "Inbox: %s", cfg.Paths.Inbox)
			a.log.Info(signalCtx, "Reports: %s", cfg.Paths.Reports)
			a.log.Info(signalCtx, "Concurrent: %d recordings at once", cfg.Watcher.MaxConcurrent)
			a.log.Info(signalCtx, "Press Ctrl+C to stop")
			a.log.Info(signalCtx, "========================================")

			if err := w.Start(signalCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Error(signalCtx, "Watcher error: %v", err)
				return err
			}
			a.log.Info(signalCtx, "Shutting down gracefully...")
			return nil
		},
	}
}
