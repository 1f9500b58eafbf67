package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeChunks(paperID string, n int) []*core.Chunk {
	chunks := make([]*core.Chunk, n)
	for i := range chunks {
		chunks[i] = &core.Chunk{
			ID:      core.MakeChunkID(paperID, i),
			PaperID: paperID,
			Index:   i,
			Text:    fmt.Sprintf("%s chunk %d", paperID, i),
		}
	}
	return chunks
}

func TestReplaceChunks(t *testing.T) {
	_, chunkRepo := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, chunkRepo.ReplaceChunks(ctx, "alpha", makeChunks("alpha", 3)))

	t.Run("get chunk", func(t *testing.T) {
		chunk, err := chunkRepo.GetChunk(ctx, core.MakeChunkID("alpha", 1))
		require.NoError(t, err)
		assert.Equal(t, "alpha chunk 1", chunk.Text)
		assert.Equal(t, 1, chunk.Index)
	})

	t.Run("replace discards old chunks", func(t *testing.T) {
		require.NoError(t, chunkRepo.ReplaceChunks(ctx, "alpha", makeChunks("alpha", 2)))

		chunks, err := chunkRepo.GetChunksByPaper(ctx, "alpha")
		require.NoError(t, err)
		assert.Len(t, chunks, 2)

		_, err = chunkRepo.GetChunk(ctx, core.MakeChunkID("alpha", 2))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGetChunksByPaper_IndexOrder(t *testing.T) {
	_, chunkRepo := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, chunkRepo.ReplaceChunks(ctx, "alpha", makeChunks("alpha", 12)))
	require.NoError(t, chunkRepo.ReplaceChunks(ctx, "beta", makeChunks("beta", 2)))

	chunks, err := chunkRepo.GetChunksByPaper(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, chunks, 12)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, "alpha", chunk.PaperID)
	}
}

func TestListChunks_CanonicalOrder(t *testing.T) {
	paperRepo, chunkRepo := newTestRepos(t)
	ctx := context.Background()

	// Papers ingested zeta-first; chunk listing must follow that order.
	for _, id := range []string{"zeta", "alpha"} {
		_, err := paperRepo.AddPaper(ctx, &core.Paper{ID: id, Title: id})
		require.NoError(t, err)
		require.NoError(t, chunkRepo.ReplaceChunks(ctx, id, makeChunks(id, 2)))
	}

	papers, err := paperRepo.ListPapers(ctx)
	require.NoError(t, err)

	chunks, err := chunkRepo.ListChunks(ctx, papers)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, "zeta", chunks[0].PaperID)
	assert.Equal(t, "zeta", chunks[1].PaperID)
	assert.Equal(t, "alpha", chunks[2].PaperID)
	assert.Equal(t, "alpha", chunks[3].PaperID)
}

func TestChunkClear(t *testing.T) {
	_, chunkRepo := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, chunkRepo.ReplaceChunks(ctx, "alpha", makeChunks("alpha", 2)))
	require.NoError(t, chunkRepo.Clear(ctx))

	chunks, err := chunkRepo.GetChunksByPaper(ctx, "alpha")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
