// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/paperscope/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, extractor and synthesizer instances.
type MockProvider struct {
	embedder    *MockEmbedder
	extractor   *MockKeyphraseExtractor
	synthesizer *MockSynthesizer
}

// NewMockProvider creates a new mock provider with default mock services and
// no synthesizer, matching the default production configuration where
// synthesis is unconfigured.
//
// Returns ai.AIProvider interface for consistency with production
// constructors. Use the GetMock* accessors for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockKeyphraseExtractor(),
	}
}

// NewMockProviderWithSynthesis creates a mock provider that also carries a
// mock synthesizer, for exercising the synthesis path in tests.
func NewMockProviderWithSynthesis() ai.AIProvider {
	return &MockProvider{
		embedder:    NewMockEmbedder(),
		extractor:   NewMockKeyphraseExtractor(),
		synthesizer: NewMockSynthesizer(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. A nil synthesizer is valid and models the unconfigured state.
func NewMockProviderWithServices(embedder *MockEmbedder, extractor *MockKeyphraseExtractor, synthesizer *MockSynthesizer) ai.AIProvider {
	return &MockProvider{
		embedder:    embedder,
		extractor:   extractor,
		synthesizer: synthesizer,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// KeyphraseExtractor returns the mock keyphrase extractor.
func (p *MockProvider) KeyphraseExtractor() ai.KeyphraseExtractor {
	return p.extractor
}

// Synthesizer returns the mock synthesizer, or nil when none was configured.
func (p *MockProvider) Synthesizer() ai.Synthesizer {
	if p.synthesizer == nil {
		return nil
	}
	return p.synthesizer
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockKeyphraseExtractor {
	return p.extractor
}

// GetMockSynthesizer returns the underlying mock synthesizer for test
// assertions. Returns nil when the provider has no synthesizer.
func (p *MockProvider) GetMockSynthesizer() *MockSynthesizer {
	return p.synthesizer
}
