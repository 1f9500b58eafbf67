// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder,
// ai.KeyphraseExtractor, ai.Synthesizer and ai.AIProvider for use in unit
// tests. The mocks allow tests to run without external AI services and enable
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vec, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: deterministic vectors derived from a text hash
//   - MockKeyphraseExtractor: word-frequency keyphrases with stable ordering
//   - MockSynthesizer: canned answer echoing the prompt head
//   - MockProvider: aggregates the above; synthesizer omitted by default to
//     mirror the unconfigured production state
package mock
