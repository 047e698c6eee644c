package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPMapping(t *testing.T) {
	cause := errors.New("ffmpeg exited 1: moov atom not found")

	tests := []struct {
		name       string
		err        *Error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation(MsgNoFilePart), http.StatusBadRequest, MsgNoFilePart},
		{"conversion", Conversion(cause), http.StatusInternalServerError, MsgInternalError},
		{"no transcript", NoTranscript(), http.StatusInternalServerError, MsgNoTranscript},
		{"timeout", Timeout("speech recognition", cause), http.StatusInternalServerError, MsgInternalError},
		{"internal", Internal(cause), http.StatusInternalServerError, MsgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if got := tt.err.PublicMessage(); got != tt.wantMsg {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestFromWrapped(t *testing.T) {
	wrapped := fmt.Errorf("transcribe: %w", NoTranscript())

	e := From(wrapped)
	if e.Kind != KindNoTranscript {
		t.Errorf("From() kind = %s, want %s", e.Kind, KindNoTranscript)
	}
	if !IsKind(wrapped, KindNoTranscript) {
		t.Error("IsKind() = false, want true")
	}
	if !errors.Is(wrapped, NoTranscript()) {
		t.Error("errors.Is() did not match by kind")
	}
}

func TestFromPlainError(t *testing.T) {
	plain := errors.New("disk full")
	e := From(plain)
	if e.Kind != KindInternal {
		t.Errorf("From() kind = %s, want %s", e.Kind, KindInternal)
	}
	if !errors.Is(e, plain) {
		t.Error("internal error lost its cause")
	}
	if From(nil) != nil {
		t.Error("From(nil) should be nil")
	}
}

func TestCauseNotInPublicMessage(t *testing.T) {
	e := Conversion(errors.New("/srv/uploads/secret-path.mp3: invalid data"))
	if got := e.PublicMessage(); got != MsgInternalError {
		t.Errorf("PublicMessage() leaked detail: %q", got)
	}
}
