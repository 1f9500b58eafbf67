package mock

import "context"

// MockSynthesizer is a test double for ai.Synthesizer.
// It allows custom behavior injection via function fields.
type MockSynthesizer struct {
	// SynthesizeFunc is called by Synthesize if set.
	// If nil, returns a short canned answer derived from the prompt.
	SynthesizeFunc func(ctx context.Context, prompt string) (string, error)

	callCount int
}

// NewMockSynthesizer creates a mock synthesizer with default canned behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Synthesize returns a canned answer, or delegates to SynthesizeFunc if set.
func (m *MockSynthesizer) Synthesize(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, prompt)
	}

	excerpt := prompt
	if len(excerpt) > 120 {
		excerpt = excerpt[:120]
	}
	return "mock synthesis for: " + excerpt, nil
}

// CallCount returns the number of times Synthesize was called.
func (m *MockSynthesizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSynthesizer) Reset() {
	m.callCount = 0
	m.SynthesizeFunc = nil
}
