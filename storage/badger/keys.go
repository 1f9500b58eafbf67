package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	paperRecordPrefix = "paprec"
	paperOrderPrefix  = "papord"
	paperOrderSeq     = "papordseq"
	chunkRecordPrefix = "chkrec"
)

// makePaperKey generates a key for a paper record by ID.
func makePaperKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", paperRecordPrefix, id))
}

// makePaperOrderKey generates a key for the ingestion-order index.
// Format: prefix:seq. The sequence is written in BigEndian order so
// lexicographic iteration yields ingestion order.
func makePaperOrderKey(seq uint64) []byte {
	prefix := []byte(paperOrderPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeChunkKey generates a key for a chunk record by chunk ID.
// Chunk IDs embed a zero-padded index ("<paper>::chunk_0007"), so iterating
// a paper's chunk-key prefix yields chunks in index order.
func makeChunkKey(chunkID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", chunkRecordPrefix, chunkID))
}

// makePaperChunkPrefix generates the iteration prefix for one paper's chunks.
func makePaperChunkPrefix(paperID string) []byte {
	return []byte(fmt.Sprintf("%s:%s::chunk_", chunkRecordPrefix, paperID))
}
