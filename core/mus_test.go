package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperMUS(t *testing.T) {
	now := time.Now().Truncate(time.Microsecond)
	paper := Paper{
		ID:         "attention",
		Title:      "Attention Is All You Need",
		ChunkIDs:   []string{MakeChunkID("attention", 0), MakeChunkID("attention", 1)},
		IngestedAt: now,
		UpdatedAt:  now.Add(time.Hour),
	}

	bs := make([]byte, PaperMUS.Size(paper))
	n := PaperMUS.Marshal(paper, bs)
	assert.Equal(t, len(bs), n)

	decoded, n, err := PaperMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, paper.ID, decoded.ID)
	assert.Equal(t, paper.Title, decoded.Title)
	assert.Equal(t, paper.ChunkIDs, decoded.ChunkIDs)
	assert.True(t, paper.IngestedAt.Equal(decoded.IngestedAt))
	assert.True(t, paper.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestChunkMUS(t *testing.T) {
	chunk := Chunk{
		ID:      MakeChunkID("attention", 3),
		PaperID: "attention",
		Index:   3,
		Text:    "the dominant sequence transduction models",
	}

	bs := make([]byte, ChunkMUS.Size(chunk))
	n := ChunkMUS.Marshal(chunk, bs)
	assert.Equal(t, len(bs), n)

	decoded, n, err := ChunkMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, chunk, decoded)
}

func TestChunkMUS_Truncated(t *testing.T) {
	chunk := Chunk{ID: "p::chunk_0000", PaperID: "p", Text: "text"}
	bs := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, bs)

	_, _, err := ChunkMUS.Unmarshal(bs[:2])
	assert.Error(t, err)
}
