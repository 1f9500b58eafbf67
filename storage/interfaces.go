package storage

import (
	"context"

	"github.com/poiesic/paperscope/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Clear removes every record the repository owns, including its indexes.
	Clear(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// PaperRepository provides operations for managing the paper registry.
type PaperRepository interface {
	Repository

	// AddPaper registers a paper. Re-adding an existing paper ID replaces its
	// metadata but keeps the original ingestion-order position, so listing
	// order stays stable across re-ingestion.
	// Sets IngestedAt on first insert and UpdatedAt on every call.
	AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error)

	// GetPaper retrieves a single paper by ID.
	// Returns ErrNotFound if the paper doesn't exist.
	GetPaper(ctx context.Context, id string) (*core.Paper, error)

	// ListPapers retrieves all papers in ingestion order.
	ListPapers(ctx context.Context) ([]*core.Paper, error)
}

// ChunkRepository provides operations for managing paper chunks.
type ChunkRepository interface {
	Repository

	// ReplaceChunks atomically replaces all chunks of a paper with the given
	// ordered set. Chunk IDs and indexes must already be populated.
	ReplaceChunks(ctx context.Context, paperID string, chunks []*core.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id string) (*core.Chunk, error)

	// GetChunksByPaper retrieves a paper's chunks ordered by chunk index.
	GetChunksByPaper(ctx context.Context, paperID string) ([]*core.Chunk, error)

	// ListChunks retrieves all chunks, papers in ingestion order and each
	// paper's chunks in index order. This is the canonical build-time order
	// for the embedding index and the graph builder.
	ListChunks(ctx context.Context, papers []*core.Paper) ([]*core.Chunk, error)
}
