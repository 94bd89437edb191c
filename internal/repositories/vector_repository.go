package repositories

import (
	"context"
	"errors"

	"grounded-chat/internal/models"
)

// ErrConnectionUnavailable indicates the vector store liveness probe failed.
// Surfaced to the caller as-is; the repository does not retry internally.
var ErrConnectionUnavailable = errors.New("vector store connection unavailable")

// VectorRepository defines the interface for similarity search against the
// vector store. Implementations must be safe for concurrent use across
// requests.
type VectorRepository interface {
	// SearchChunks runs a similarity search for the given query embedding,
	// optionally narrowed by a metadata filter, and returns chunks sorted by
	// descending score.
	SearchChunks(ctx context.Context, queryEmbedding []float32, topK int, filter *models.RetrievalFilter) ([]*models.DocumentChunk, error)

	// Ping checks connectivity to the backing store
	Ping(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}

// VectorRepositoryError represents errors from the vector repository
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Operation + ": " + e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}
