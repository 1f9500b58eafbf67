package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/paperscope/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	t.Run("deterministic", func(t *testing.T) {
		first, err := embedder.EmbedText(ctx, "hello")
		require.NoError(t, err)
		second, err := embedder.EmbedText(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("different texts differ", func(t *testing.T) {
		a, err := embedder.EmbedText(ctx, "alpha")
		require.NoError(t, err)
		b, err := embedder.EmbedText(ctx, "beta")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("batch matches single", func(t *testing.T) {
		single, err := embedder.EmbedText(ctx, "gamma")
		require.NoError(t, err)
		batch, err := embedder.EmbedTexts(ctx, []string{"gamma"})
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, single, batch[0])
	})

	t.Run("custom function injection", func(t *testing.T) {
		injected := NewMockEmbedder()
		injected.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("boom")
		}
		_, err := injected.EmbedText(ctx, "anything")
		assert.Error(t, err)
		assert.Equal(t, 1, injected.CallCount())
	})
}

func TestMockKeyphraseExtractor(t *testing.T) {
	ctx := context.Background()
	extractor := NewMockKeyphraseExtractor()

	t.Run("ranks by frequency", func(t *testing.T) {
		phrases, err := extractor.ExtractKeyphrases(ctx,
			"networks networks networks attention attention gradient", 3)
		require.NoError(t, err)
		require.Len(t, phrases, 3)
		assert.Equal(t, "networks", phrases[0].Phrase)
		assert.Equal(t, 1.0, phrases[0].Score)
		assert.Equal(t, "attention", phrases[1].Phrase)
		assert.Equal(t, "gradient", phrases[2].Phrase)
	})

	t.Run("drops stop words and punctuation", func(t *testing.T) {
		phrases, err := extractor.ExtractKeyphrases(ctx, "the of and (embeddings).", 5)
		require.NoError(t, err)
		require.Len(t, phrases, 1)
		assert.Equal(t, "embeddings", phrases[0].Phrase)
	})

	t.Run("ties keep first occurrence order", func(t *testing.T) {
		phrases, err := extractor.ExtractKeyphrases(ctx, "zebra apple mango", 3)
		require.NoError(t, err)
		require.Len(t, phrases, 3)
		assert.Equal(t, "zebra", phrases[0].Phrase)
		assert.Equal(t, "apple", phrases[1].Phrase)
		assert.Equal(t, "mango", phrases[2].Phrase)
	})

	t.Run("clamps to max candidates", func(t *testing.T) {
		phrases, err := extractor.ExtractKeyphrases(ctx, "one two three four five", 2)
		require.NoError(t, err)
		assert.Len(t, phrases, 2)
	})

	t.Run("empty text", func(t *testing.T) {
		phrases, err := extractor.ExtractKeyphrases(ctx, "", 5)
		require.NoError(t, err)
		assert.Empty(t, phrases)
	})

	t.Run("custom function injection", func(t *testing.T) {
		injected := NewMockKeyphraseExtractor()
		injected.ExtractKeyphrasesFunc = func(_ context.Context, _ string, _ int) ([]ai.Keyphrase, error) {
			return []ai.Keyphrase{{Phrase: "injected", Score: 1.0}}, nil
		}
		phrases, err := injected.ExtractKeyphrases(ctx, "anything", 5)
		require.NoError(t, err)
		require.Len(t, phrases, 1)
		assert.Equal(t, "injected", phrases[0].Phrase)
	})
}

func TestMockSynthesizer(t *testing.T) {
	ctx := context.Background()

	t.Run("canned answer", func(t *testing.T) {
		synthesizer := NewMockSynthesizer()
		answer, err := synthesizer.Synthesize(ctx, "summarize these papers")
		require.NoError(t, err)
		assert.Contains(t, answer, "summarize these papers")
	})

	t.Run("custom function injection", func(t *testing.T) {
		synthesizer := NewMockSynthesizer()
		synthesizer.SynthesizeFunc = func(_ context.Context, _ string) (string, error) {
			return "", errors.New("timeout")
		}
		_, err := synthesizer.Synthesize(ctx, "anything")
		assert.Error(t, err)
	})
}

func TestMockProvider(t *testing.T) {
	t.Run("without synthesis", func(t *testing.T) {
		provider := NewMockProvider()
		assert.NotNil(t, provider.Embedder())
		assert.NotNil(t, provider.KeyphraseExtractor())
		assert.Nil(t, provider.Synthesizer())
		assert.NoError(t, provider.Close())
	})

	t.Run("with synthesis", func(t *testing.T) {
		provider := NewMockProviderWithSynthesis()
		assert.NotNil(t, provider.Synthesizer())
	})
}
