package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/medscribe/internal/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
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

			srv := httpapi.New(httpapi.Options{
				Addr:           cfg.Server.ListenAddr(),
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
				MaxUploadBytes: cfg.Server.MaxUploadBytes(),
			}, a.processor, a.log, a.metrics)

			a.log.Info(signalCtx, "========================================")
			a.log.Info(signalCtx, "Medical conversation analyzer is ready")
			a.log.Info(signalCtx, "Listening on http://%s", cfg.Server.ListenAddr())
			a.log.Info(signalCtx, "Speech: %s, %d-%d speakers, timeout %s", cfg.Speech.LanguageCode, cfg.Speech.MinSpeakers, cfg.Speech.MaxSpeakers, cfg.Speech.Timeout)
			a.log.Info(signalCtx, "Model: %s, timeout %s", cfg.Gemini.Model, cfg.Gemini.Timeout)
			a.log.Info(signalCtx, "Press Ctrl+C to stop")
			a.log.Info(signalCtx, "========================================")

			if err := srv.Run(signalCtx); err != nil {
				a.log.Error(signalCtx, "Server error: %v", err)
				return err
			}
			a.log.Info(signalCtx, "Server stopped")
			return nil
		},
	}
}
