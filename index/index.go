package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/paperscope/ai"
	"github.com/poiesic/paperscope/core"
)

// Index maintains one embedding vector per chunk and answers nearest-neighbor
// queries over them. Vectors are held in memory; durability comes from the
// registry the index is rebuilt from.
//
// Build has full-replace semantics: each successful call swaps in a complete
// new snapshot, and a failed call leaves the previous snapshot queryable.
// Reads and writes may run concurrently.
type Index struct {
	embedder ai.Embedder
	logger   *slog.Logger

	mu       sync.RWMutex
	snapshot *snapshot
	// cache maps content fingerprints to vectors so rebuilding an unchanged
	// corpus does not re-embed every chunk. Entries not referenced by the new
	// snapshot are dropped on swap.
	cache map[uint64][]float32
}

// snapshot is one immutable generation of the index. Chunks and vectors are
// parallel slices in insertion order, which is also the tie-break order for
// equal scores.
type snapshot struct {
	chunks  []*core.Chunk
	vectors [][]float32
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// New creates a new embedding index.
func New(embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	idx := &Index{
		embedder: embedder,
		logger:   slog.Default().With("component", "index"),
		cache:    make(map[uint64][]float32),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Snapshot is one fully built index generation that has not been published
// yet. Prepare produces it; Install makes it the live snapshot. Callers that
// pair the index with other derived state build everything via Prepare first
// and publish it all at once.
type Snapshot struct {
	snap  *snapshot
	cache map[uint64][]float32
}

// Len returns the number of chunks the prepared snapshot covers.
func (s *Snapshot) Len() int {
	return len(s.snap.chunks)
}

// Build computes one vector per chunk and swaps the result in as the new
// snapshot. A second call discards the previous index rather than appending.
// On embedder failure the build aborts with ErrEmbeddingUnavailable and the
// previous snapshot stays queryable.
func (idx *Index) Build(ctx context.Context, chunks []*core.Chunk) error {
	prepared, err := idx.Prepare(ctx, chunks)
	if err != nil {
		return err
	}
	idx.Install(prepared)
	return nil
}

// Prepare embeds every chunk and returns the resulting snapshot without
// publishing it. The live snapshot is untouched: searches keep seeing the
// previous generation until Install. On embedder failure Prepare returns a
// wrapped ErrEmbeddingUnavailable and nothing changes.
func (idx *Index) Prepare(ctx context.Context, chunks []*core.Chunk) (*Snapshot, error) {
	idx.logger.Info("building embedding index", "chunks", len(chunks))

	// Embed only text the cache has not seen. The fingerprints slice keeps
	// chunk order; misses records which positions need fresh vectors.
	idx.mu.RLock()
	fingerprints := make([]uint64, len(chunks))
	var missTexts []string
	var missPositions []int
	for i, chunk := range chunks {
		fingerprints[i] = core.Fingerprint(chunk.Text)
		if _, ok := idx.cache[fingerprints[i]]; !ok {
			missTexts = append(missTexts, chunk.Text)
			missPositions = append(missPositions, i)
		}
	}
	idx.mu.RUnlock()

	fresh := make(map[int][]float32, len(missPositions))
	if len(missTexts) > 0 {
		vectors, err := idx.embedder.EmbedTexts(ctx, missTexts)
		if err != nil {
			idx.logger.Error("embedding failed, keeping previous index", "err", err)
			return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != len(missTexts) {
			return nil, fmt.Errorf("%w: expected %d vectors, received %d",
				ErrEmbeddingUnavailable, len(missTexts), len(vectors))
		}
		for i, pos := range missPositions {
			fresh[pos] = normalizeVector(vectors[i])
		}
	}

	next := &snapshot{
		chunks:  make([]*core.Chunk, len(chunks)),
		vectors: make([][]float32, len(chunks)),
	}
	nextCache := make(map[uint64][]float32, len(chunks))

	idx.mu.RLock()
	for i, chunk := range chunks {
		vec, ok := fresh[i]
		if !ok {
			vec = idx.cache[fingerprints[i]]
		}
		next.chunks[i] = chunk
		next.vectors[i] = vec
		nextCache[fingerprints[i]] = vec
	}
	idx.mu.RUnlock()

	idx.logger.Debug("embedding index built", "chunks", len(chunks), "embedded", len(missTexts))
	return &Snapshot{snap: next, cache: nextCache}, nil
}

// Install publishes a prepared snapshot, replacing the live one. Cache
// entries not referenced by the new snapshot are dropped.
func (idx *Index) Install(prepared *Snapshot) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snapshot = prepared.snap
	idx.cache = prepared.cache
}

// Search returns the k chunks most similar to the query text, ordered by
// descending cosine similarity with ties broken by chunk insertion order.
// k is clamped to the number of indexed chunks. A built-but-empty index
// yields an empty result; an index that was never built yields
// ErrIndexNotBuilt.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]core.ChunkMatch, error) {
	idx.mu.RLock()
	snap := idx.snapshot
	idx.mu.RUnlock()

	if snap == nil {
		return nil, ErrIndexNotBuilt
	}
	if len(snap.chunks) == 0 || k <= 0 {
		return []core.ChunkMatch{}, nil
	}

	queryVec, err := idx.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	queryVec = normalizeVector(queryVec)

	matches := make([]core.ChunkMatch, len(snap.chunks))
	for i, chunk := range snap.chunks {
		matches[i] = core.ChunkMatch{
			Chunk: chunk,
			Score: dotProduct(queryVec, snap.vectors[i]),
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// Len returns the number of chunks in the current snapshot.
// Returns 0 when the index has never been built.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.snapshot == nil {
		return 0
	}
	return len(idx.snapshot.chunks)
}

// Built reports whether at least one Build call has succeeded.
func (idx *Index) Built() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.snapshot != nil
}

// Clear drops the current snapshot and cache, returning the index to the
// never-built state.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snapshot = nil
	idx.cache = make(map[uint64][]float32)
}
