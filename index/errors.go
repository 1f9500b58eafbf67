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


package index

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexNotBuilt is returned when Search is called before any
	// successful Build.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrEmbeddingUnavailable wraps embedder failures during Build.
	// A build that fails with this error leaves the previous index intact.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
