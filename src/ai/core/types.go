package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malathy01/LifecodeAI/src/types"
)

// AnalysisRequest describes one claim to verify. ImageData is an optional
// base64-encoded bitmap and may carry a data-URI prefix, which providers
// strip before transmission.
type AnalysisRequest struct {
	Claim     string
	ImageData string
	ImageMIME string
}

const defaultImageMIME = "image/jpeg"

// ImagePayload returns the media type and bare base64 payload of the
// attached image, or ok=false when no image is attached.
func (r AnalysisRequest) ImagePayload() (mime, data string, ok bool) {
	raw := strings.TrimSpace(r.ImageData)
	if raw == "" {
		return "", "", false
	}

	mime = r.ImageMIME
	if strings.HasPrefix(raw, "data:") {
		if idx := strings.Index(raw, ";base64,"); idx > 0 {
			if mime == "" {
				mime = raw[len("data:"):idx]
			}
			raw = raw[idx+len(";base64,"):]
		}
	}
	if mime == "" {
		mime = defaultImageMIME
	}
	return mime, raw, true
}

// Client is the narrow capability interface the rest of the application
// depends on; concrete providers are swappable behind it.
type Client interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*types.Verdict, error)
}

// ErrorKind classifies an analysis failure.
type ErrorKind string

const (
	ErrTransport ErrorKind = "transport"
	ErrBadStatus ErrorKind = "status"
	ErrSchema    ErrorKind = "schema"
)

// AnalysisError is the single failure type surfaced by analysis clients.
// Callers treat every kind the same way; the kind exists for logs and tests.
type AnalysisError struct {
	Kind ErrorKind
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed (%s): %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure.
func TransportError(err error) *AnalysisError {
	return &AnalysisError{Kind: ErrTransport, Err: err}
}

// StatusError wraps a non-2xx provider response.
func StatusError(status int, body []byte) *AnalysisError {
	return &AnalysisError{Kind: ErrBadStatus, Err: fmt.Errorf("status %d: %s", status, truncate(body, 512))}
}

// SchemaError wraps a malformed or incomplete provider response.
func SchemaError(err error) *AnalysisError {
	return &AnalysisError{Kind: ErrSchema, Err: err}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
