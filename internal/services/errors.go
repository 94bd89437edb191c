package services

import "errors"

// ErrUnsupportedMultiFilter indicates the filter tool proposed more than one
// filter. Multiple proposals are not supported; this fails fast rather than
// silently picking one.
var ErrUnsupportedMultiFilter = errors.New("multiple filter proposals not supported yet")

// GenerationError represents an upstream completion provider failure
// (rate limit, timeout, malformed response). Surfaced to the caller as-is,
// no internal retry.
type GenerationError struct {
	Operation string
	Err       error
}

func (e *GenerationError) Error() string {
	return "generation provider failed during " + e.Operation + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// EmbeddingError represents an upstream embedding provider failure
type EmbeddingError struct {
	Operation string
	Err       error
}

func (e *EmbeddingError) Error() string {
	return "embedding provider failed during " + e.Operation + ": " + e.Err.Error()
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
