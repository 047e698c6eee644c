package normalizer

import (
	"github.com/nguyentantai21042004/medscribe/internal/logger"
	"github.com/nguyentantai21042004/medscribe/pkg/executor"
)

type implNormalizer struct {
	ffmpeg   string
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Normalizer that runs the ffmpeg binary at ffmpegPath.
func New(ffmpegPath string, exec executor.Executor, log logger.Logger) Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &implNormalizer{
		ffmpeg:   ffmpegPath,
		executor: exec,
		logger:   log,
	}
}
