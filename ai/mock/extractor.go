package mock

import (
	"context"
	"sort"
	"strings"

	"github.com/poiesic/paperscope/ai"
)

// MockKeyphraseExtractor is a test double for ai.KeyphraseExtractor.
// It allows custom behavior injection via function fields.
type MockKeyphraseExtractor struct {
	// ExtractKeyphrasesFunc is called by ExtractKeyphrases if set.
	// If nil, uses default word-frequency extraction.
	ExtractKeyphrasesFunc func(ctx context.Context, text string, maxCandidates int) ([]ai.Keyphrase, error)

	callCount int
}

// NewMockKeyphraseExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockKeyphraseExtractor() *MockKeyphraseExtractor {
	return &MockKeyphraseExtractor{}
}

var extractorStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "we": true, "our": true,
}

// ExtractKeyphrases extracts mock keyphrases by word frequency.
// Default behavior: lowercases and tokenizes the text, drops stop words,
// keeps the maxCandidates most frequent words. Scores are frequencies
// normalized by the highest frequency; ties keep first-occurrence order,
// so the output is fully deterministic.
func (m *MockKeyphraseExtractor) ExtractKeyphrases(ctx context.Context, text string, maxCandidates int) ([]ai.Keyphrase, error) {
	m.callCount++

	if m.ExtractKeyphrasesFunc != nil {
		return m.ExtractKeyphrasesFunc(ctx, text, maxCandidates)
	}

	if maxCandidates <= 0 {
		return []ai.Keyphrase{}, nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}—–-")
		if word == "" || extractorStopWords[word] {
			continue
		}
		if _, ok := counts[word]; !ok {
			firstSeen[word] = order
			order++
		}
		counts[word]++
	}

	if len(counts) == 0 {
		return []ai.Keyphrase{}, nil
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > maxCandidates {
		words = words[:maxCandidates]
	}

	maxCount := counts[words[0]]
	phrases := make([]ai.Keyphrase, len(words))
	for i, word := range words {
		phrases[i] = ai.Keyphrase{
			Phrase: word,
			Score:  float64(counts[word]) / float64(maxCount),
		}
	}

	return phrases, nil
}

// CallCount returns the number of times ExtractKeyphrases was called.
func (m *MockKeyphraseExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockKeyphraseExtractor) Reset() {
	m.callCount = 0
	m.ExtractKeyphrasesFunc = nil
}
