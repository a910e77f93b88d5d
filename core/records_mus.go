// mus serializers for the persisted index records. Maintained by hand and
// byte-compatible with the output of cmd/musgen; the wire format tests in
// the storage package pin the layout.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	metadataMUS  = ord.NewMapSer[string, string](ord.String, ord.String)
	tokensMUS    = ord.NewSliceSer[string](ord.String)
	float32sMUS  = ord.NewSliceSer[float32](raw.Float32)
	vectorsMUS   = ord.NewSliceSer[[]float32](float32sMUS)
	chunkListMUS = ord.NewSliceSer[Chunk](ChunkMUS)
	corpusMUS    = ord.NewSliceSer[[]string](tokensMUS)
)

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.DocumentID, bs)
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	return n + metadataMUS.Marshal(v.Metadata, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.DocumentID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.DocumentID)
	size += varint.Int.Size(v.ChunkIndex)
	size += ord.String.Size(v.Text)
	return size + metadataMUS.Size(v.Metadata)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = metadataMUS.Skip(bs[n:])
	n += n1
	return
}

var ChunkListMUS = chunkListDTMUS{}

type chunkListDTMUS struct{}

func (s chunkListDTMUS) Marshal(v ChunkList, bs []byte) (n int) {
	return chunkListMUS.Marshal([]Chunk(v), bs)
}

func (s chunkListDTMUS) Unmarshal(bs []byte) (v ChunkList, n int, err error) {
	sv, n, err := chunkListMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ChunkList(sv)
	return
}

func (s chunkListDTMUS) Size(v ChunkList) (size int) {
	return chunkListMUS.Size([]Chunk(v))
}

func (s chunkListDTMUS) Skip(bs []byte) (n int, err error) {
	return chunkListMUS.Skip(bs)
}

var TokenCorpusMUS = tokenCorpusDTMUS{}

type tokenCorpusDTMUS struct{}

func (s tokenCorpusDTMUS) Marshal(v TokenCorpus, bs []byte) (n int) {
	return corpusMUS.Marshal([][]string(v), bs)
}

func (s tokenCorpusDTMUS) Unmarshal(bs []byte) (v TokenCorpus, n int, err error) {
	sv, n, err := corpusMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v = TokenCorpus(sv)
	return
}

func (s tokenCorpusDTMUS) Size(v TokenCorpus) (size int) {
	return corpusMUS.Size([][]string(v))
}

func (s tokenCorpusDTMUS) Skip(bs []byte) (n int, err error) {
	return corpusMUS.Skip(bs)
}

var VectorSetMUS = vectorSetMUS{}

type vectorSetMUS struct{}

func (s vectorSetMUS) Marshal(v VectorSet, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Dim, bs)
	return n + vectorsMUS.Marshal(v.Vectors, bs[n:])
}

func (s vectorSetMUS) Unmarshal(bs []byte) (v VectorSet, n int, err error) {
	v.Dim, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vectors, n1, err = vectorsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorSetMUS) Size(v VectorSet) (size int) {
	size = varint.Int.Size(v.Dim)
	return size + vectorsMUS.Size(v.Vectors)
}

func (s vectorSetMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = vectorsMUS.Skip(bs[n:])
	n += n1
	return
}

var CachedEmbeddingMUS = cachedEmbeddingMUS{}

type cachedEmbeddingMUS struct{}

func (s cachedEmbeddingMUS) Marshal(v CachedEmbedding, bs []byte) (n int) {
	n = ord.String.Marshal(v.Model, bs)
	return n + float32sMUS.Marshal(v.Vector, bs[n:])
}

func (s cachedEmbeddingMUS) Unmarshal(bs []byte) (v CachedEmbedding, n int, err error) {
	v.Model, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = float32sMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s cachedEmbeddingMUS) Size(v CachedEmbedding) (size int) {
	size = ord.String.Size(v.Model)
	return size + float32sMUS.Size(v.Vector)
}

func (s cachedEmbeddingMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = float32sMUS.Skip(bs[n:])
	n += n1
	return
}
