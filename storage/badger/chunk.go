package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &ChunkRepository{backend: backend}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceChunks atomically replaces all chunks of a paper.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, paperID string, chunks []*core.Chunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		// Delete the paper's existing chunks first.
		existing, err := collectChunkKeys(tx, paperID)
		if err != nil {
			return err
		}
		for _, key := range existing {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for _, chunk := range chunks {
			if err := tx.Set(makeChunkKey(chunk.ID), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id string) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			chunk, err = storage.UnmarshalChunk(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// GetChunksByPaper retrieves a paper's chunks ordered by chunk index.
// Chunk keys embed a zero-padded index, so prefix iteration order is
// already index order.
func (r *ChunkRepository) GetChunksByPaper(ctx context.Context, paperID string) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePaperChunkPrefix(paperID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := iter.Item().Value(func(val []byte) error {
				chunk, err := storage.UnmarshalChunk(val)
				if err != nil {
					return err
				}
				chunks = append(chunks, chunk)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// ListChunks retrieves all chunks for the given papers, preserving the
// papers' ingestion order and each paper's chunk-index order.
func (r *ChunkRepository) ListChunks(ctx context.Context, papers []*core.Paper) ([]*core.Chunk, error) {
	var all []*core.Chunk
	for _, paper := range papers {
		chunks, err := r.GetChunksByPaper(ctx, paper.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// Clear removes all chunk records.
func (r *ChunkRepository) Clear(ctx context.Context) error {
	return r.backend.DropPrefixes([]byte(chunkRecordPrefix + ":"))
}

// collectChunkKeys gathers the stored chunk keys of one paper.
// Keys are copied because they are only valid while the iterator is open.
func collectChunkKeys(tx *badger.Txn, paperID string) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePaperChunkPrefix(paperID)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}
