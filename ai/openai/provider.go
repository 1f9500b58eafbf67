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


package openai

import (
	"log/slog"

	"github.com/poiesic/paperscope/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder, keyphrase extractor and optional synthesizer instances.
type Provider struct {
	config      *ai.Config
	embedder    *Embedder
	extractor   *KeyphraseExtractor
	synthesizer *Synthesizer
	logger      *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use. When synthesis is not
// configured, the provider's Synthesizer() returns nil, which consumers treat
// as the normal unconfigured state.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	extractor, err := newKeyphraseExtractor(config)
	if err != nil {
		return nil, err
	}

	var synthesizer *Synthesizer
	if config.SynthesisEnabled() {
		synthesizer, err = newSynthesizer(config)
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		config:      config,
		embedder:    embedder,
		extractor:   extractor,
		synthesizer: synthesizer,
		logger:      slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// KeyphraseExtractor returns the keyphrase extraction service.
func (p *Provider) KeyphraseExtractor() ai.KeyphraseExtractor {
	return p.extractor
}

// Synthesizer returns the answer synthesis service, or nil when synthesis is
// not configured.
func (p *Provider) Synthesizer() ai.Synthesizer {
	if p.synthesizer == nil {
		return nil
	}
	return p.synthesizer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
