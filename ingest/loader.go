package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxTitleLength bounds the first-line title heuristic; anything longer is
// body text, not a title.
const maxTitleLength = 150

// Document is one source file prepared for ingestion.
type Document struct {
	PaperID string
	Title   string
	Chunks  []string
}

// PaperIDFromPath derives the stable paper id: the file name without its
// extension. The same file always yields the same id.
func PaperIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titleFromText prefers the document's first non-empty line as the title,
// the way PDF ingestion prefers metadata over the file name. Falls back to
// the given default when the line is missing or too long to be a title.
func titleFromText(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxTitleLength {
			return line
		}
		break
	}
	return fallback
}

// LoadFile reads one plain-text document and chunks it.
func LoadFile(path string, chunker *Chunker) (*Document, error) {
	if chunker == nil {
		chunker = NewChunker()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	paperID := PaperIDFromPath(path)
	return &Document{
		PaperID: paperID,
		Title:   titleFromText(text, paperID),
		Chunks:  chunker.Split(text),
	}, nil
}

// LoadDir reads every .txt and .md file in dir, in file name order.
// Unreadable files fail the load; an empty directory is not an error.
func LoadDir(dir string, chunker *Chunker) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	documents := make([]*Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md":
		default:
			continue
		}
		document, err := LoadFile(filepath.Join(dir, entry.Name()), chunker)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, nil
}
