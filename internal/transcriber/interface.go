package transcriber

import (
	"context"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

// Transcriber turns a normalized WAV file into a speaker-labelled transcript.
type Transcriber interface {
	// Transcribe returns ErrNoTranscript when the service recognizes nothing.
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Recognizer submits a long-running recognition and blocks until it
// completes or ctx ends.
type Recognizer interface {
	Recognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error)
}
