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


// Package ai provides abstractions for the AI services used in Paperscope.
//
// This package defines interfaces for text embeddings, keyphrase extraction
// and answer synthesis. It follows the dependency inversion principle,
// allowing the core domain and business logic to depend on abstractions
// rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three capability interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - KeyphraseExtractor: Extracts ranked keyphrase candidates from text
//   - Synthesizer: Generates natural-language answers from structured prompts
//
// AIProvider aggregates the three for convenient initialization. A provider
// may legitimately return a nil Synthesizer: synthesis is an optional
// collaborator, and consumers must fall back to deterministic behavior when
// it is absent or failing.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert on call counts.
package ai
