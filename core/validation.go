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

import (
	"fmt"
	"strings"
)

// ValidateIngestion validates a paper submission according to domain rules.
// It must be called before the registry is mutated so a rejected submission
// leaves the registry unchanged.
//
// Validation rules:
//   - PaperID must not be empty (after trimming whitespace)
//   - Title must not be empty
//   - At least one chunk must be supplied
//   - Every chunk must contain non-whitespace text
func ValidateIngestion(paperID, title string, chunkTexts []string) error {
	if strings.TrimSpace(paperID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyPaperID)
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyTitle)
	}

	if len(chunkTexts) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrNoChunks)
	}

	for i, text := range chunkTexts {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%w: %w (chunk %d)", ErrInvalidPaper, ErrEmptyChunkText, i)
		}
	}

	return nil
}
