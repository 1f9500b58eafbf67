package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
)

// ConceptPrefix namespaces concept node identifiers so they can never
// collide with paper identifiers in the graph.
const ConceptPrefix = "concept::"

// Paper represents one ingested research paper and the ordered chunks it owns.
type Paper struct {
	ID         string
	Title      string
	ChunkIDs   []string
	IngestedAt time.Time // When the paper was first registered
	UpdatedAt  time.Time // When the paper was last re-ingested
}

// Chunk is a bounded span of extracted text from one paper.
// It is the unit of embedding and retrieval, immutable once created.
type Chunk struct {
	ID      string
	PaperID string
	Index   int
	Text    string
}

// Concept represents a normalized keyphrase shared across one or more papers.
type Concept struct {
	ID           string
	Label        string
	MentionCount int
}

// ChunkMatch is a retrieval hit from the embedding index.
type ChunkMatch struct {
	Chunk *Chunk
	Score float32
}

// SourceChunk is a retrieved chunk enriched with its paper title,
// as returned to callers in query results.
type SourceChunk struct {
	ChunkID string  `json:"chunk_id"`
	PaperID string  `json:"paper_id"`
	Title   string  `json:"title"`
	Text    string  `json:"text"`
	Score   float32 `json:"score"`
}

// MakeChunkID derives the stable chunk identifier for a paper and chunk index.
// The same paper and index always produce the same identifier across rebuilds.
func MakeChunkID(paperID string, index int) string {
	return fmt.Sprintf("%s::chunk_%04d", paperID, index)
}

// NormalizeConceptID collapses a keyphrase into a canonical concept identifier.
// Case is folded and whitespace runs are collapsed so equivalent phrases from
// different papers map to the same concept node.
func NormalizeConceptID(label string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(label)), " ")
	return ConceptPrefix + norm
}

// IsConceptID reports whether a node identifier names a concept.
func IsConceptID(id string) bool {
	return strings.HasPrefix(id, ConceptPrefix)
}

// TruncateText cuts text to at most limit bytes without splitting a UTF-8
// rune. The cut backs up to the nearest rune boundary, so the result may be
// shorter than limit on multibyte text.
func TruncateText(text string, limit int) string {
	if limit >= len(text) {
		return text
	}
	if limit < 0 {
		limit = 0
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// Fingerprint generates a deterministic 64-bit content fingerprint using
// BLAKE2b hashing. Identical text always produces the same fingerprint.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
