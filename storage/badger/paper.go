package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/storage"
)

// PaperRepository implements storage.PaperRepository for BadgerDB.
type PaperRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
}

var _ storage.PaperRepository = (*PaperRepository)(nil)

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(backend *Backend) (*PaperRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}

	orderSeq, err := backend.GetSequence(paperOrderSeq)
	if err != nil {
		return nil, err
	}

	return &PaperRepository{
		backend:  backend,
		orderSeq: orderSeq,
	}, nil
}

// Close releases the ingestion-order sequence.
func (r *PaperRepository) Close() error {
	return r.orderSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *PaperRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPaper registers a paper, replacing metadata on re-ingestion while
// keeping the original ingestion-order position.
func (r *PaperRepository) AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePaperKey(paper.ID)
		now := time.Now().UTC()

		old, err := readPaper(tx, key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if old != nil {
			// Re-ingestion: keep the ingestion-order slot and first timestamp.
			paper.IngestedAt = old.IngestedAt
		} else {
			paper.IngestedAt = now

			seq, err := r.orderSeq.Next()
			if err != nil {
				return err
			}
			if err := tx.Set(makePaperOrderKey(seq), []byte(paper.ID)); err != nil {
				return err
			}
		}
		paper.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalPaper(paper)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return paper, nil
}

// GetPaper retrieves a single paper by ID.
func (r *PaperRepository) GetPaper(ctx context.Context, id string) (*core.Paper, error) {
	var paper *core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		paper, err = readPaper(tx, makePaperKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return paper, nil
}

// ListPapers retrieves all papers in ingestion order.
func (r *PaperRepository) ListPapers(ctx context.Context) ([]*core.Paper, error) {
	var papers []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paperOrderPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var paperID string
			if err := iter.Item().Value(func(val []byte) error {
				paperID = string(val)
				return nil
			}); err != nil {
				return err
			}

			paper, err := readPaper(tx, makePaperKey(paperID))
			if err != nil {
				// Order entries without a record indicate a cleared paper;
				// skip rather than fail the listing.
				if errors.Is(err, storage.ErrNotFound) {
					continue
				}
				return err
			}
			papers = append(papers, paper)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return papers, nil
}

// Clear removes all papers and the ingestion-order index.
func (r *PaperRepository) Clear(ctx context.Context) error {
	return r.backend.DropPrefixes(
		[]byte(paperRecordPrefix+":"),
		[]byte(paperOrderPrefix+":"),
	)
}

// readPaper reads a paper record within a transaction.
func readPaper(tx *badger.Txn, key []byte) (*core.Paper, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var paper *core.Paper
	err = item.Value(func(val []byte) error {
		var err error
		paper, err = storage.UnmarshalPaper(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paper, nil
}
