// Package apperror defines the error taxonomy of the analysis pipeline and
// how each kind is reported to clients.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindConversion   Kind = "CONVERSION"
	KindNoTranscript Kind = "NO_TRANSCRIPT"
	KindTimeout      Kind = "TIMEOUT"
	KindInternal     Kind = "INTERNAL"
)

// Client-facing messages. Internal details never leave the server log.
const (
	MsgNoFilePart    = "No audio file part"
	MsgInvalidFile   = "No selected file or file type not allowed"
	MsgFileTooLarge  = "Uploaded file is too large"
	MsgNoTranscript  = "Transcription failed. The audio might be silent or too noisy."
	MsgInternalError = "An internal server error occurred. Check server logs for details."
)

// Error is a classified pipeline error.
type Error struct {
	Kind Kind
	// Message is safe to show to clients.
	Message string
	// Cause is logged but never rendered.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports kind equality so errors.Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// HTTPStatus maps the kind onto the response status code.
func (e *Error) HTTPStatus() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PublicMessage is what the client sees. Only validation and no-transcript
// errors carry a specific message.
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindValidation, KindNoTranscript:
		return e.Message
	default:
		return MsgInternalError
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conversion(cause error) *Error {
	return &Error{Kind: KindConversion, Message: "audio conversion failed", Cause: cause}
}

func NoTranscript() *Error {
	return &Error{Kind: KindNoTranscript, Message: MsgNoTranscript}
}

func Timeout(operation string, cause error) *Error {
	return &Error{Kind: KindTimeout, Message: operation + " timed out", Cause: cause}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Cause: cause}
}

// From classifies any error. Errors that carry no kind are internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
