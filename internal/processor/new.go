package processor

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
	"github.com/nguyentantai21042004/medscribe/internal/metrics"
	"github.com/nguyentantai21042004/medscribe/internal/normalizer"
	"github.com/nguyentantai21042004/medscribe/internal/summarizer"
	"github.com/nguyentantai21042004/medscribe/internal/transcriber"
)

// Options configures the pipeline.
type Options struct {
	// UploadDir holds one working directory per run.
	UploadDir         string
	AllowedExtensions []string
}

// Deps are the pipeline stages and observability hooks. Metrics may be nil.
type Deps struct {
	Normalizer  normalizer.Normalizer
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Logger      logger.Logger
	Metrics     *metrics.Metrics
}

type implProcessor struct {
	opts        Options
	allowed     map[string]struct{}
	normalizer  normalizer.Normalizer
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// New creates a new Processor instance
func New(opts Options, deps Deps) Processor {
	return &implProcessor{
		opts:        opts,
		allowed:     extensionSet(opts.AllowedExtensions),
		normalizer:  deps.Normalizer,
		transcriber: deps.Transcriber,
		summarizer:  deps.Summarizer,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		tracer:      otel.Tracer("github.com/nguyentantai21042004/medscribe/internal/processor"),
	}
}
