package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/wavinfo"
)

// ErrNoTranscript is returned when recognition succeeds but yields no words,
// usually because the audio is silent or too noisy.
var ErrNoTranscript error = apperror.NoTranscript()

// Transcribe submits the WAV at wavPath for diarized recognition and renders
// the speaker-labelled transcript.
func (t *implTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	info, err := wavinfo.Inspect(wavPath)
	if err != nil {
		return "", fmt.Errorf("inspect wav: %w", err)
	}

	content, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read wav: %w", err)
	}

	req := t.buildRequest(info, content)

	waitCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	t.logger.Info(ctx, "Sending request to Speech-to-Text API (%d Hz, %d channel(s), %s)...",
		info.SampleRate, info.Channels, t.cfg.LanguageCode)
	start := time.Now()

	resp, err := t.recognizer.Recognize(waitCtx, req)
	if err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", apperror.Timeout("speech recognition", err)
		}
		return "", fmt.Errorf("speech recognition: %w", err)
	}
	t.logger.Info(ctx, "Response received from Speech-to-Text API in %s.", time.Since(start).Round(time.Millisecond))

	words, ok := wordsFromResponse(resp)
	if !ok {
		return "", ErrNoTranscript
	}

	// A recognition without words is reported like an empty one: there is
	// nothing worth sending on to analysis.
	transcript := AssembleTranscript(words)
	if transcript == "" {
		return "", ErrNoTranscript
	}
	return transcript, nil
}

func (t *implTranscriber) buildRequest(info wavinfo.Info, content []byte) *speechpb.LongRunningRecognizeRequest {
	return &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(info.SampleRate),
			AudioChannelCount:          int32(info.Channels),
			LanguageCode:               t.cfg.LanguageCode,
			EnableAutomaticPunctuation: true,
			DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
				EnableSpeakerDiarization: true,
				MinSpeakerCount:          t.cfg.MinSpeakers,
				MaxSpeakerCount:          t.cfg.MaxSpeakers,
			},
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: content},
		},
	}
}
