package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

const (
	DefaultModel   = "gemini-2.0-flash-001"
	DefaultTimeout = 120 * time.Second
)

type implSummarizer struct {
	generator Generator
	logger    logger.Logger
	model     string
	timeout   time.Duration
}

// New creates a Summarizer that asks model through gen, giving up after
// timeout.
func New(gen Generator, model string, timeout time.Duration, log logger.Logger) Summarizer {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &implSummarizer{
		generator: gen,
		logger:    log,
		model:     model,
		timeout:   timeout,
	}
}
