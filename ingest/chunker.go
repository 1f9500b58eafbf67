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

package ingest

import "strings"

const (
	// DefaultChunkSize is the chunk window in words.
	DefaultChunkSize = 900
	// DefaultOverlap is how many words consecutive chunks share.
	DefaultOverlap = 150
)

// Chunker splits document text into overlapping word windows. Overlap keeps
// sentences that straddle a boundary retrievable from both sides.
type Chunker struct {
	// Size is the window length in words.
	Size int
	// Overlap is the number of trailing words repeated at the start of the
	// next window. Must be smaller than Size.
	Overlap int
}

// NewChunker creates a chunker with the default window and overlap.
func NewChunker() *Chunker {
	return &Chunker{Size: DefaultChunkSize, Overlap: DefaultOverlap}
}

// Split breaks text into chunks. Whitespace runs collapse to single spaces.
// Empty or all-whitespace text yields no chunks.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	size := c.Size
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := c.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	step := size - overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
