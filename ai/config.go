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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ExtractorHost is the base URL for the keyphrase-extraction service API.
	ExtractorHost string

	// SynthesisHost is the base URL for the answer-synthesis service API.
	// An empty value disables synthesis; queries then use the deterministic
	// heuristic answer, which is a normal operating mode.
	SynthesisHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ExtractorModel is the model identifier to use for keyphrase extraction.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ExtractorModel string

	// SynthesisModel is the model identifier to use for answer synthesis.
	SynthesisModel string

	// SynthesisTimeout bounds a single synthesis call. On expiry the query
	// engine falls back to the heuristic answer.
	// Default: 45s
	SynthesisTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithExtractorHost sets the keyphrase-extraction service host URL.
func WithExtractorHost(host string) ConfigOption {
	return func(c *Config) {
		c.ExtractorHost = host
	}
}

// WithSynthesisHost sets the answer-synthesis service host URL.
func WithSynthesisHost(host string) ConfigOption {
	return func(c *Config) {
		c.SynthesisHost = host
	}
}

// WithHost sets embedding, extractor and synthesis hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ExtractorHost = host
		c.SynthesisHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithExtractorModel sets the extraction model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// WithSynthesisModel sets the synthesis model identifier.
func WithSynthesisModel(model string) ConfigOption {
	return func(c *Config) {
		c.SynthesisModel = model
	}
}

// WithSynthesisTimeout sets the per-call synthesis timeout.
func WithSynthesisTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.SynthesisTimeout = timeout
	}
}

// WithoutSynthesis disables answer synthesis. Queries will always use the
// deterministic heuristic answer.
func WithoutSynthesis() ConfigOption {
	return func(c *Config) {
		c.SynthesisHost = ""
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Synthesis is disabled by default; it is an
// optional collaborator, not a requirement.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:    defaultHost,
		ExtractorHost:    defaultHost,
		SynthesisHost:    "",
		EmbeddingModel:   "embeddinggemma",
		ExtractorModel:   "qwen2.5:3b",
		SynthesisModel:   "qwen2.5:3b",
		SynthesisTimeout: 45 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434/v1"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SynthesisEnabled reports whether a synthesis service is configured.
func (c *Config) SynthesisEnabled() bool {
	return c.SynthesisHost != ""
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.ExtractorHost = normalizeHost(c.ExtractorHost)
	c.SynthesisHost = normalizeHost(c.SynthesisHost)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ExtractorHost == "" {
		return errors.New("ai config: ExtractorHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ExtractorModel == "" {
		return errors.New("ai config: ExtractorModel is required")
	}
	if c.SynthesisEnabled() && c.SynthesisModel == "" {
		return errors.New("ai config: SynthesisModel is required when synthesis is enabled")
	}
	if c.SynthesisTimeout <= 0 {
		c.SynthesisTimeout = 45 * time.Second
	}
	return nil
}
