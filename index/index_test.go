package index

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/paperscope/ai/mock"
	"github.com/poiesic/paperscope/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunks(texts ...string) []*core.Chunk {
	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.Chunk{
			ID:      core.MakeChunkID("paper", i),
			PaperID: "paper",
			Index:   i,
			Text:    text,
		}
	}
	return chunks
}

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		idx, err := New(mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.NotNil(t, idx)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := New(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSearch_NotBuilt(t *testing.T) {
	idx, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), "query", 5)
	assert.ErrorIs(t, err, ErrIndexNotBuilt)
}

func TestBuildAndSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	chunks := testChunks(
		"neural networks for graphs",
		"attention is all you need",
		"reinforcement learning basics",
	)
	require.NoError(t, idx.Build(ctx, chunks))
	assert.Equal(t, 3, idx.Len())
	assert.True(t, idx.Built())

	t.Run("exact text ranks first", func(t *testing.T) {
		matches, err := idx.Search(ctx, "attention is all you need", 3)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, chunks[1].ID, matches[0].Chunk.ID)
		assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-5)
	})

	t.Run("scores descend", func(t *testing.T) {
		matches, err := idx.Search(ctx, "neural networks", 3)
		require.NoError(t, err)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})

	t.Run("k clamped to index size", func(t *testing.T) {
		matches, err := idx.Search(ctx, "anything", 50)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("non-positive k yields empty", func(t *testing.T) {
		matches, err := idx.Search(ctx, "anything", 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestSearch_TieBreaksByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	same := []float32{1, 0, 0}
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = same
		}
		return vectors, nil
	}
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return same, nil
	}

	idx, err := New(embedder)
	require.NoError(t, err)
	require.NoError(t, idx.Build(ctx, testChunks("first", "second", "third")))

	matches, err := idx.Search(ctx, "anything", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// Identical vectors score identically; insertion order decides.
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, matches[1].Score, matches[2].Score)
	assert.Equal(t, core.MakeChunkID("paper", 0), matches[0].Chunk.ID)
	assert.Equal(t, core.MakeChunkID("paper", 1), matches[1].Chunk.ID)
	assert.Equal(t, core.MakeChunkID("paper", 2), matches[2].Chunk.ID)
}

func TestPrepareInstall(t *testing.T) {
	ctx := context.Background()
	idx, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	prepared, err := idx.Prepare(ctx, testChunks("one", "two"))
	require.NoError(t, err)
	assert.Equal(t, 2, prepared.Len())

	// Prepare publishes nothing: the index is still unbuilt.
	assert.False(t, idx.Built())
	_, err = idx.Search(ctx, "one", 1)
	assert.ErrorIs(t, err, ErrIndexNotBuilt)

	idx.Install(prepared)
	assert.Equal(t, 2, idx.Len())
	matches, err := idx.Search(ctx, "one", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "one", matches[0].Chunk.Text)

	// A later Prepare leaves the installed snapshot live until installed.
	replacement, err := idx.Prepare(ctx, testChunks("three"))
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	idx.Install(replacement)
	assert.Equal(t, 1, idx.Len())
}

func TestBuild_FullReplace(t *testing.T) {
	ctx := context.Background()
	idx, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	require.NoError(t, idx.Build(ctx, testChunks("one", "two")))
	assert.Equal(t, 2, idx.Len())

	// A second build replaces, never appends.
	require.NoError(t, idx.Build(ctx, testChunks("three")))
	assert.Equal(t, 1, idx.Len())

	matches, err := idx.Search(ctx, "three", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "three", matches[0].Chunk.Text)
}

func TestBuild_EmbedderFailureKeepsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	idx, err := New(embedder)
	require.NoError(t, err)

	require.NoError(t, idx.Build(ctx, testChunks("stable chunk")))

	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("model load failed")
	}
	err = idx.Build(ctx, testChunks("brand new chunk"))
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)

	// The previous snapshot stays queryable.
	embedder.EmbedTextsFunc = nil
	matches, err := idx.Search(ctx, "stable chunk", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "stable chunk", matches[0].Chunk.Text)
}

func TestBuild_ReusesCachedVectors(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	idx, err := New(embedder)
	require.NoError(t, err)

	var embedded [][]string
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		embedded = append(embedded, texts)
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 64)
		}
		return vectors, nil
	}

	require.NoError(t, idx.Build(ctx, testChunks("alpha", "beta")))
	require.Len(t, embedded, 1)

	// Unchanged corpus: nothing to embed on rebuild.
	require.NoError(t, idx.Build(ctx, testChunks("alpha", "beta")))
	assert.Len(t, embedded, 1)

	// One new chunk: only the new text is embedded.
	require.NoError(t, idx.Build(ctx, testChunks("alpha", "beta", "gamma")))
	require.Len(t, embedded, 2)
	assert.Equal(t, []string{"gamma"}, embedded[1])
}

func TestBuild_Empty(t *testing.T) {
	ctx := context.Background()
	idx, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	require.NoError(t, idx.Build(ctx, nil))
	assert.True(t, idx.Built())
	assert.Equal(t, 0, idx.Len())

	// Built-but-empty index returns empty results, not an error.
	matches, err := idx.Search(ctx, "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	idx, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	require.NoError(t, idx.Build(ctx, testChunks("one")))
	idx.Clear()

	assert.False(t, idx.Built())
	assert.Equal(t, 0, idx.Len())
	_, err = idx.Search(ctx, "one", 1)
	assert.ErrorIs(t, err, ErrIndexNotBuilt)
}
