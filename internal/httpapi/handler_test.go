package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/logger"
	"github.com/nguyentantai21042004/medscribe/internal/metrics"
	"github.com/nguyentantai21042004/medscribe/internal/processor"
	"github.com/nguyentantai21042004/medscribe/internal/summarizer"
	"github.com/nguyentantai21042004/medscribe/internal/transcriber"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type copyNormalizer struct{ err error }

func (n copyNormalizer) Normalize(ctx context.Context, src, dst string) error {
	if n.err != nil {
		return n.err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	return s.text, s.err
}

type stubSummarizer struct{ res summarizer.Result }

func (s stubSummarizer) Analyze(ctx context.Context, transcript string) summarizer.Result {
	return s.res
}

type panicProcessor struct{}

func (panicProcessor) Process(ctx context.Context, up processor.Upload) (*processor.Result, error) {
	panic("boom")
}

func (panicProcessor) ProcessFile(ctx context.Context, path string) (*processor.Result, error) {
	panic("boom")
}

type harness struct {
	uploads string
	router  http.Handler
	metrics *metrics.Metrics
}

func newHarness(t *testing.T, trans stubTranscriber, sum stubSummarizer, norm copyNormalizer) *harness {
	t.Helper()
	uploads := filepath.Join(t.TempDir(), "uploads")
	m := metrics.New()
	proc := processor.New(processor.Options{
		UploadDir:         uploads,
		AllowedExtensions: []string{"wav", "mp3", "m4a", "ogg", "webm", "flac"},
	}, processor.Deps{
		Normalizer:  norm,
		Transcriber: trans,
		Summarizer:  sum,
		Logger:      logger.Nop(),
		Metrics:     m,
	})
	srv := New(Options{MaxUploadBytes: 1 << 20}, proc, logger.Nop(), m)
	return &harness{uploads: uploads, router: srv.Handler(), metrics: m}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(content)
	} else {
		w.WriteField("note", "no file here")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func postAnalyze(t *testing.T, h http.Handler, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	return out
}

func uploadsEmpty(t *testing.T, dir string) bool {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	if err != nil {
		t.Fatal(err)
	}
	return len(entries) == 0
}

func TestAnalyzeSuccess(t *testing.T) {
	h := newHarness(t,
		stubTranscriber{text: "Speaker 1: Selamat pagi.\nSpeaker 2: Pagi, dok."},
		stubSummarizer{res: summarizer.Result{Text: "**Ringkasan Singkat:** Kontrol rutin."}},
		copyNormalizer{},
	)

	rec := postAnalyze(t, h.router, FormField, "visit.mp3", []byte("audio"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out["transcript"] != "Speaker 1: Selamat pagi.\nSpeaker 2: Pagi, dok." {
		t.Errorf("transcript = %q", out["transcript"])
	}
	if out["analysis"] != "**Ringkasan Singkat:** Kontrol rutin." {
		t.Errorf("analysis = %q", out["analysis"])
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if !uploadsEmpty(t, h.uploads) {
		t.Error("upload dir not cleaned after success")
	}
}

func TestAnalyzeAbsorbedAnalysisError(t *testing.T) {
	h := newHarness(t,
		stubTranscriber{text: "Speaker 1: halo"},
		stubSummarizer{res: summarizer.Result{Err: errors.New("model overloaded")}},
		copyNormalizer{},
	)

	rec := postAnalyze(t, h.router, FormField, "visit.wav", []byte("audio"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode(t, rec)["analysis"]; !strings.HasPrefix(got, "An error occurred: ") {
		t.Errorf("analysis = %q", got)
	}
	if !uploadsEmpty(t, h.uploads) {
		t.Error("upload dir not cleaned after absorbed analysis error")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		filename   string
		trans      stubTranscriber
		norm       copyNormalizer
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing part",
			field:      "",
			wantStatus: http.StatusBadRequest,
			wantError:  apperror.MsgNoFilePart,
		},
		{
			name:       "wrong field",
			field:      "file",
			filename:   "visit.mp3",
			wantStatus: http.StatusBadRequest,
			wantError:  apperror.MsgNoFilePart,
		},
		{
			name:       "disallowed extension",
			field:      FormField,
			filename:   "notes.txt",
			wantStatus: http.StatusBadRequest,
			wantError:  apperror.MsgInvalidFile,
		},
		{
			name:       "conversion failure",
			field:      FormField,
			filename:   "broken.m4a",
			norm:       copyNormalizer{err: apperror.Conversion(errors.New("Invalid data found when processing input"))},
			wantStatus: http.StatusInternalServerError,
			wantError:  apperror.MsgInternalError,
		},
		{
			name:       "no transcript",
			field:      FormField,
			filename:   "silence.ogg",
			trans:      stubTranscriber{err: transcriber.ErrNoTranscript},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Transcription failed. The audio might be silent or too noisy.",
		},
		{
			name:       "backend failure",
			field:      FormField,
			filename:   "visit.flac",
			trans:      stubTranscriber{err: errors.New("rpc error: code = PermissionDenied")},
			wantStatus: http.StatusInternalServerError,
			wantError:  apperror.MsgInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.trans, stubSummarizer{}, tt.norm)

			rec := postAnalyze(t, h.router, tt.field, tt.filename, []byte("audio"))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decode(t, rec)["error"]; got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
			if !uploadsEmpty(t, h.uploads) {
				t.Error("upload dir not empty")
			}
		})
	}
}

func TestAnalyzeEmptyFilename(t *testing.T) {
	h := newHarness(t, stubTranscriber{text: "x"}, stubSummarizer{}, copyNormalizer{})

	rec := postAnalyze(t, h.router, FormField, "", []byte("audio"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != apperror.MsgInvalidFile {
		t.Errorf("error = %q, want %q", got, apperror.MsgInvalidFile)
	}
	if !uploadsEmpty(t, h.uploads) {
		t.Error("upload dir not empty")
	}
}

func TestAnalyzeRejectsTextWithoutWriting(t *testing.T) {
	h := newHarness(t, stubTranscriber{text: "x"}, stubSummarizer{}, copyNormalizer{})

	rec := postAnalyze(t, h.router, FormField, "notes.txt", []byte("hello"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if _, err := os.Stat(h.uploads); !errors.Is(err, os.ErrNotExist) {
		t.Error("upload dir should not be created for a rejected file")
	}
}

func TestAnalyzeTooLarge(t *testing.T) {
	h := newHarness(t, stubTranscriber{text: "x"}, stubSummarizer{}, copyNormalizer{})

	rec := postAnalyze(t, h.router, FormField, "long.wav", bytes.Repeat([]byte{0}, 2<<20))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecoveryFromPanic(t *testing.T) {
	srv := New(Options{}, panicProcessor{}, logger.Nop(), nil)

	rec := postAnalyze(t, srv.Handler(), FormField, "visit.mp3", []byte("audio"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != apperror.MsgInternalError {
		t.Errorf("error = %q", got)
	}
}

func TestPanicIsCountedAsServerError(t *testing.T) {
	m := metrics.New()
	srv := New(Options{}, panicProcessor{}, logger.Nop(), m)

	postAnalyze(t, srv.Handler(), FormField, "visit.mp3", []byte("audio"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `endpoint="/analyze",method="POST",status_code="500"`) {
		t.Errorf("panicking request not recorded as a 500:\n%s", rec.Body.String())
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := New(Options{}, panicProcessor{}, logger.Nop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", RequestIDHeader, got)
	}
}

func TestIndexAndStatic(t *testing.T) {
	srv := New(Options{}, panicProcessor{}, logger.Nop(), nil)

	tests := []struct {
		path string
		want string
	}{
		{"/", "audioFile"},
		{"/static/app.js", "/analyze"},
		{"/static/style.css", "font-family"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", tt.path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), tt.want) {
			t.Errorf("GET %s body missing %q", tt.path, tt.want)
		}
	}
}

func TestHealth(t *testing.T) {
	srv := New(Options{}, panicProcessor{}, logger.Nop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, stubTranscriber{text: "Speaker 1: ok"}, stubSummarizer{res: summarizer.Result{Text: "ok"}}, copyNormalizer{})
	postAnalyze(t, h.router, FormField, "visit.mp3", []byte("audio"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `endpoint="/analyze"`) {
		t.Error("metrics missing /analyze request series")
	}
}
