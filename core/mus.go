package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-composed MUS serializers for registry values. Field order is part of
// the stored format and must not change without a migration.

var chunkIDsMUS = ord.NewSliceSer[string](ord.String)

type paperMUS struct{}

// PaperMUS serializes Paper values for storage.
var PaperMUS = paperMUS{}

func (paperMUS) Marshal(p Paper, bs []byte) (n int) {
	n = ord.String.Marshal(p.ID, bs)
	n += ord.String.Marshal(p.Title, bs[n:])
	n += chunkIDsMUS.Marshal(p.ChunkIDs, bs[n:])
	n += varint.Int64.Marshal(p.IngestedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(p.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (paperMUS) Unmarshal(bs []byte) (p Paper, n int, err error) {
	var n1 int
	p.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.ChunkIDs, n1, err = chunkIDsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.IngestedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (paperMUS) Size(p Paper) (size int) {
	size = ord.String.Size(p.ID)
	size += ord.String.Size(p.Title)
	size += chunkIDsMUS.Size(p.ChunkIDs)
	size += varint.Int64.Size(p.IngestedAt.UnixMicro())
	size += varint.Int64.Size(p.UpdatedAt.UnixMicro())
	return
}

type chunkMUS struct{}

// ChunkMUS serializes Chunk values for storage.
var ChunkMUS = chunkMUS{}

func (chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.PaperID, bs[n:])
	n += varint.Int.Marshal(c.Index, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	return
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	c.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.PaperID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkMUS) Size(c Chunk) (size int) {
	size = ord.String.Size(c.ID)
	size += ord.String.Size(c.PaperID)
	size += varint.Int.Size(c.Index)
	size += ord.String.Size(c.Text)
	return
}
