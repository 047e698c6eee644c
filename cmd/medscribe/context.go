package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/medscribe/internal/config"
	"github.com/nguyentantai21042004/medscribe/internal/logger"
	"github.com/nguyentantai21042004/medscribe/internal/metrics"
	"github.com/nguyentantai21042004/medscribe/internal/normalizer"
	"github.com/nguyentantai21042004/medscribe/internal/processor"
	"github.com/nguyentantai21042004/medscribe/internal/summarizer"
	"github.com/nguyentantai21042004/medscribe/internal/tracing"
	"github.com/nguyentantai21042004/medscribe/internal/transcriber"
	"github.com/nguyentantai21042004/medscribe/pkg/executor"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := config.DefaultPath
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := ensureDirectories(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app is the wired pipeline shared by every command.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	metrics   *metrics.Metrics
	processor processor.Processor

	closers []func() error
}

// newApp builds the logger, the cloud clients and the pipeline from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.NewWithOptions(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}
	a.closers = append(a.closers, func() error { return logger.Close(log) })

	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRate:  cfg.Tracing.SampleRate,
	}, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.closers = append(a.closers, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracing(shutdownCtx)
	})
	log.Info(ctx, "Using Google Cloud project %s in %s", cfg.Google.ProjectID, cfg.Google.Location)

	recognizer, err := transcriber.NewGoogleRecognizer(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init speech client: %w", err)
	}
	a.closers = append(a.closers, recognizer.Close)

	generator, err := summarizer.NewGeminiGenerator(ctx, cfg.Google.ProjectID, cfg.Google.Location)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	a.processor = processor.New(processor.Options{
		UploadDir:         cfg.Paths.Uploads,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	}, processor.Deps{
		Normalizer: normalizer.New(cfg.FFmpeg.BinaryPath, executor.New(), log),
		Transcriber: transcriber.New(transcriber.Config{
			LanguageCode: cfg.Speech.LanguageCode,
			MinSpeakers:  cfg.Speech.MinSpeakers,
			MaxSpeakers:  cfg.Speech.MaxSpeakers,
			Timeout:      cfg.Speech.Timeout,
		}, recognizer, log),
		Summarizer: summarizer.New(generator, cfg.Gemini.Model, cfg.Gemini.Timeout, log),
		Logger:     log,
		Metrics:    a.metrics,
	})

	log.Info(ctx, "Configuration loaded successfully")
	return a, nil
}

// Close releases clients in reverse order of creation.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Inbox,
		cfg.Paths.Reports,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
