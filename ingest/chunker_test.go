package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w"
	}
	return strings.Join(parts, " ")
}

func TestSplit(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, NewChunker().Split(""))
		assert.Empty(t, NewChunker().Split("   \n\t  "))
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := NewChunker().Split("just a few words here")
		require.Len(t, chunks, 1)
		assert.Equal(t, "just a few words here", chunks[0])
	})

	t.Run("whitespace runs collapse", func(t *testing.T) {
		chunks := NewChunker().Split("one\n\ntwo\t three")
		require.Len(t, chunks, 1)
		assert.Equal(t, "one two three", chunks[0])
	})

	t.Run("window and overlap", func(t *testing.T) {
		chunker := &Chunker{Size: 10, Overlap: 4}
		chunks := chunker.Split(words(22))
		// Steps of 6: windows at 0, 6, 12, 18.
		require.Len(t, chunks, 4)
		assert.Len(t, strings.Fields(chunks[0]), 10)
		assert.Len(t, strings.Fields(chunks[3]), 4)
	})

	t.Run("consecutive chunks share overlap words", func(t *testing.T) {
		text := "a b c d e f g h i j"
		chunker := &Chunker{Size: 6, Overlap: 2}
		chunks := chunker.Split(text)
		require.Len(t, chunks, 2)
		assert.Equal(t, "a b c d e f", chunks[0])
		assert.Equal(t, "e f g h i j", chunks[1])
	})

	t.Run("overlap not smaller than size is ignored", func(t *testing.T) {
		chunker := &Chunker{Size: 5, Overlap: 5}
		chunks := chunker.Split(words(12))
		require.Len(t, chunks, 3)
	})

	t.Run("defaults applied for zero size", func(t *testing.T) {
		chunker := &Chunker{}
		chunks := chunker.Split(words(DefaultChunkSize + 1))
		assert.Len(t, chunks, 2)
	})
}
