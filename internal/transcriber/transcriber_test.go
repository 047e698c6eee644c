package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

type fakeRecognizer struct {
	resp  *speechpb.LongRunningRecognizeResponse
	err   error
	block bool
	req   *speechpb.LongRunningRecognizeRequest
}

func (f *fakeRecognizer) Recognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	f.req = req
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func writeWAV(t *testing.T, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "normalized.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, sampleRate/4),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func result(words ...Word) *speechpb.SpeechRecognitionResult {
	infos := make([]*speechpb.WordInfo, 0, len(words))
	for _, w := range words {
		infos = append(infos, &speechpb.WordInfo{Word: w.Text, SpeakerTag: w.SpeakerTag})
	}
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Words: infos}},
	}
}

func TestTranscribe(t *testing.T) {
	rec := &fakeRecognizer{resp: &speechpb.LongRunningRecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			// Earlier results carry words without speaker tags.
			result(Word{"Hello", 0}, Word{"there", 0}),
			result(Word{"Hello", 1}, Word{"there", 1}, Word{"Hi", 2}),
		},
	}}
	tr := New(Config{LanguageCode: "id-ID", MinSpeakers: 2, MaxSpeakers: 10}, rec, logger.Nop())

	got, err := tr.Transcribe(context.Background(), writeWAV(t, 16000))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if want := "Speaker 1: Hello there\nSpeaker 2: Hi"; got != want {
		t.Errorf("Transcribe() = %q, want %q", got, want)
	}
}

func TestTranscribeRequest(t *testing.T) {
	rec := &fakeRecognizer{resp: &speechpb.LongRunningRecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{result(Word{"Ya", 1})},
	}}
	tr := New(Config{}, rec, logger.Nop())

	path := writeWAV(t, 22050)
	if _, err := tr.Transcribe(context.Background(), path); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	cfg := rec.req.GetConfig()
	if cfg.GetEncoding() != speechpb.RecognitionConfig_LINEAR16 {
		t.Errorf("Encoding = %v, want LINEAR16", cfg.GetEncoding())
	}
	if cfg.GetSampleRateHertz() != 22050 {
		t.Errorf("SampleRateHertz = %d, want 22050", cfg.GetSampleRateHertz())
	}
	if cfg.GetAudioChannelCount() != 1 {
		t.Errorf("AudioChannelCount = %d, want 1", cfg.GetAudioChannelCount())
	}
	if cfg.GetLanguageCode() != "id-ID" {
		t.Errorf("LanguageCode = %q, want id-ID", cfg.GetLanguageCode())
	}
	if !cfg.GetEnableAutomaticPunctuation() {
		t.Error("automatic punctuation not enabled")
	}
	d := cfg.GetDiarizationConfig()
	if !d.GetEnableSpeakerDiarization() || d.GetMinSpeakerCount() != 2 || d.GetMaxSpeakerCount() != 10 {
		t.Errorf("DiarizationConfig = %v, want enabled 2..10", d)
	}

	data, _ := os.ReadFile(path)
	if got := len(rec.req.GetAudio().GetContent()); got != len(data) {
		t.Errorf("audio content = %d bytes, want whole file (%d)", got, len(data))
	}
}

func TestTranscribeNoTranscript(t *testing.T) {
	tests := []struct {
		name string
		resp *speechpb.LongRunningRecognizeResponse
	}{
		{"no results", &speechpb.LongRunningRecognizeResponse{}},
		{"no alternatives", &speechpb.LongRunningRecognizeResponse{
			Results: []*speechpb.SpeechRecognitionResult{{}},
		}},
		{"no words", &speechpb.LongRunningRecognizeResponse{
			Results: []*speechpb.SpeechRecognitionResult{result()},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(Config{}, &fakeRecognizer{resp: tt.resp}, logger.Nop())
			_, err := tr.Transcribe(context.Background(), writeWAV(t, 16000))
			if !errors.Is(err, ErrNoTranscript) {
				t.Errorf("Transcribe() error = %v, want ErrNoTranscript", err)
			}
		})
	}
}

func TestTranscribeTimeout(t *testing.T) {
	tr := New(Config{Timeout: 20 * time.Millisecond}, &fakeRecognizer{block: true}, logger.Nop())

	_, err := tr.Transcribe(context.Background(), writeWAV(t, 16000))
	if !apperror.IsKind(err, apperror.KindTimeout) {
		t.Errorf("Transcribe() error = %v, want timeout", err)
	}
}

func TestTranscribeBackendError(t *testing.T) {
	backend := errors.New("rpc error: code = PermissionDenied")
	tr := New(Config{}, &fakeRecognizer{err: backend}, logger.Nop())

	_, err := tr.Transcribe(context.Background(), writeWAV(t, 16000))
	if !errors.Is(err, backend) {
		t.Errorf("Transcribe() error = %v, want wrapped backend error", err)
	}
	if apperror.IsKind(err, apperror.KindTimeout) || errors.Is(err, ErrNoTranscript) {
		t.Errorf("backend error misclassified: %v", err)
	}
}

func TestTranscribeNotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.wav")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &fakeRecognizer{}
	if _, err := New(Config{}, rec, logger.Nop()).Transcribe(context.Background(), path); err == nil {
		t.Error("Transcribe() should fail on a non-WAV file")
	}
	if rec.req != nil {
		t.Error("recognizer called for an invalid file")
	}
}

func TestTranscribeIdempotent(t *testing.T) {
	rec := &fakeRecognizer{resp: &speechpb.LongRunningRecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			result(Word{"Minum", 1}, Word{"obat", 1}, Word{".", 1}, Word{"Baik", 2}, Word{",", 2}, Word{"dok", 2}),
		},
	}}
	tr := New(Config{}, rec, logger.Nop())
	path := writeWAV(t, 16000)

	first, err := tr.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := tr.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("runs differ: %q vs %q", first, second)
	}
}
