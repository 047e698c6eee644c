package processor

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/medscribe/internal/summarizer"
)

// Processor runs one upload through conversion, transcription and analysis.
type Processor interface {
	// Process leaves nothing on disk when it returns, whatever the outcome.
	Process(ctx context.Context, up Upload) (*Result, error)
	// ProcessFile runs a local audio file through Process.
	ProcessFile(ctx context.Context, path string) (*Result, error)
}

// Upload is one client-supplied audio file.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Result is the output of a successful pipeline run.
type Result struct {
	Transcript string
	Analysis   summarizer.Result
}
