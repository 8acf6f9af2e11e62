package services

import "errors"

var (
	// ErrUnsupportedFormat is returned when a document's media type is not one
	// the extractor can decode.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailure wraps any decoder level failure.
	ErrExtractionFailure = errors.New("failed to extract document text")
	// ErrAIUnavailable is returned when no completion service is configured.
	ErrAIUnavailable = errors.New("AI completion service is not configured")
	// ErrMalformedAIResponse is returned when the completion reply carries no
	// parseable JSON object.
	ErrMalformedAIResponse = errors.New("malformed AI response")
)
