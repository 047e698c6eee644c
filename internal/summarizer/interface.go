package summarizer

import "context"

// Summarizer produces a Markdown analysis of a consultation transcript.
type Summarizer interface {
	// Analyze never fails the caller: model errors come back in Result.Err.
	Analyze(ctx context.Context, transcript string) Result
}

// Generator sends one prompt to a model and returns the text it produced.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}
