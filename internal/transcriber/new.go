package transcriber

import (
	"time"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

// DefaultTimeout bounds the wait for a long-running recognition.
const DefaultTimeout = 300 * time.Second

// Config holds the fixed recognition settings.
type Config struct {
	LanguageCode string
	MinSpeakers  int32
	MaxSpeakers  int32
	Timeout      time.Duration
}

type implTranscriber struct {
	cfg        Config
	recognizer Recognizer
	logger     logger.Logger
}

// New creates a Transcriber backed by rec.
func New(cfg Config, rec Recognizer, log logger.Logger) Transcriber {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "id-ID"
	}
	if cfg.MinSpeakers == 0 {
		cfg.MinSpeakers = 2
	}
	if cfg.MaxSpeakers == 0 {
		cfg.MaxSpeakers = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &implTranscriber{
		cfg:        cfg,
		recognizer: rec,
		logger:     log,
	}
}
