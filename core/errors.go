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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPaper indicates a paper failed ingestion validation.
	ErrInvalidPaper = errors.New("invalid paper")

	// ErrEmptyPaperID indicates the paper ID field is empty.
	ErrEmptyPaperID = errors.New("paper id cannot be empty")

	// ErrEmptyTitle indicates the paper title field is empty.
	ErrEmptyTitle = errors.New("paper title cannot be empty")

	// ErrNoChunks indicates a paper was ingested without any chunks.
	ErrNoChunks = errors.New("paper must have at least one chunk")

	// ErrEmptyChunkText indicates a chunk contains no text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")
)
