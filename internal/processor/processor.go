package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/summarizer"
)

// Stage names, used for logs, spans and metrics.
const (
	StageSave       = "save"
	StageConvert    = "convert"
	StageTranscribe = "transcribe"
	StageAnalyze    = "analyze"
)

// Process orchestrates the whole analysis pipeline for one upload.
func (p *implProcessor) Process(ctx context.Context, up Upload) (*Result, error) {
	if err := p.validate(up.Filename); err != nil {
		p.logger.Warn(ctx, "Analyze request with invalid file: %q", up.Filename)
		return nil, err
	}

	startTime := time.Now()
	ctx, span := p.tracer.Start(ctx, "processor.Process")
	defer span.End()

	p.metrics.PipelineStarted()
	defer p.metrics.PipelineFinished()

	work, err := p.newWorkspace(up.Filename)
	if err != nil {
		return nil, p.fail(ctx, StageSave, err)
	}
	defer p.cleanup(ctx, work)

	span.SetAttributes(attribute.String("upload.name", filepath.Base(work.uploadPath)))
	p.logger.Info(ctx, "Received file for analysis: %s", filepath.Base(work.uploadPath))

	// Step 0: Persist the upload
	size, err := p.runStage(ctx, StageSave, func(ctx context.Context) (int64, error) {
		return p.save(up, work.uploadPath)
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RecordUpload(size)
	p.logger.Info(ctx, "Saved upload (%s)", humanize.Bytes(uint64(size)))

	// Step 1: Convert to mono PCM WAV
	p.logger.Info(ctx, "Step 1: Converting uploaded audio to WAV format.")
	if _, err := p.runStage(ctx, StageConvert, func(ctx context.Context) (int64, error) {
		return 0, p.normalizer.Normalize(ctx, work.uploadPath, work.wavPath)
	}); err != nil {
		return nil, err
	}

	// Step 2: Diarized transcription
	p.logger.Info(ctx, "Step 2: Transcribing the WAV file.")
	var transcript string
	if _, err := p.runStage(ctx, StageTranscribe, func(ctx context.Context) (int64, error) {
		var err error
		transcript, err = p.transcriber.Transcribe(ctx, work.wavPath)
		return 0, err
	}); err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "Transcription successful.")

	// Step 3: Model analysis. Failures stay inside the result.
	p.logger.Info(ctx, "Step 3: Analyzing transcript with Gemini.")
	analysis := p.analyze(ctx, transcript)

	p.logger.Info(ctx, "Successfully processed %s in %s", filepath.Base(work.uploadPath), time.Since(startTime).Round(time.Millisecond))
	return &Result{Transcript: transcript, Analysis: analysis}, nil
}

// ProcessFile feeds a local file through Process under its base name.
func (p *implProcessor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return p.Process(ctx, Upload{Filename: filepath.Base(path), Body: f})
}

// runStage times fn, records it on a child span and classifies its error.
func (p *implProcessor) runStage(ctx context.Context, stage string, fn func(context.Context) (int64, error)) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "processor."+stage)
	defer span.End()

	start := time.Now()
	n, err := fn(ctx)
	p.metrics.ObserveStage(stage, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage+" failed")
		return n, p.fail(ctx, stage, err)
	}
	return n, nil
}

func (p *implProcessor) analyze(ctx context.Context, transcript string) (res summarizer.Result) {
	ctx, span := p.tracer.Start(ctx, "processor."+StageAnalyze)
	defer span.End()

	start := time.Now()
	res = p.summarizer.Analyze(ctx, transcript)
	p.metrics.ObserveStage(StageAnalyze, time.Since(start).Seconds())
	if !res.OK() {
		span.RecordError(res.Err)
		p.metrics.RecordAnalysisFailure()
		p.logger.Warn(ctx, "Analysis unavailable, returning error text: %v", res.Err)
	}
	return res
}

// fail classifies err, logs the full chain and counts the failure.
func (p *implProcessor) fail(ctx context.Context, stage string, err error) error {
	appErr := apperror.From(err)
	p.metrics.RecordStageFailure(stage, string(appErr.Kind))

	switch appErr.Kind {
	case apperror.KindNoTranscript:
		p.logger.Error(ctx, "Transcription failed. The audio might be silent or too noisy.")
	default:
		p.logger.Error(ctx, "Pipeline failed at %s stage: %+v", stage, err)
	}
	return appErr
}
