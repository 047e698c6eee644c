package transcriber

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleRecognizer runs recognitions on Google Cloud Speech-to-Text.
// Credentials come from Application Default Credentials.
type GoogleRecognizer struct {
	client *speech.Client
}

// NewGoogleRecognizer dials the Speech-to-Text API.
func NewGoogleRecognizer(ctx context.Context) (*GoogleRecognizer, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &GoogleRecognizer{client: client}, nil
}

func (g *GoogleRecognizer) Recognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	op, err := g.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for operation %s: %w", op.Name(), err)
	}
	return resp, nil
}

func (g *GoogleRecognizer) Close() error {
	return g.client.Close()
}
