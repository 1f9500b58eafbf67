package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic:
// identical text must always produce an identical vector.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// KeyphraseExtractor extracts ranked candidate keyphrases from text.
// Implementations must be thread-safe for concurrent use.
type KeyphraseExtractor interface {
	// ExtractKeyphrases analyzes text and returns up to maxCandidates keyphrases
	// ordered by descending score. Scores express extraction confidence; higher
	// means more central to the text.
	// Returns an empty slice if no keyphrases are found.
	// Returns an error if extraction fails.
	ExtractKeyphrases(ctx context.Context, text string, maxCandidates int) ([]Keyphrase, error)
}

// Synthesizer turns a structured prompt into natural-language text.
// Implementations may fail or time out; callers are expected to degrade to a
// deterministic fallback rather than surface synthesis errors.
type Synthesizer interface {
	// Synthesize generates an answer text for the given prompt.
	Synthesize(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, KeyphraseExtractor and
// Synthesizer instances, ensuring they share configuration appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// KeyphraseExtractor returns the keyphrase extraction service.
	// The returned KeyphraseExtractor is safe for concurrent use.
	KeyphraseExtractor() KeyphraseExtractor

	// Synthesizer returns the answer synthesis service, or nil when synthesis
	// is not configured. A nil synthesizer is a normal state, not an error.
	Synthesizer() Synthesizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
