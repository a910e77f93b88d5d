package badger

import (
	"encoding/binary"

	"github.com/poiesic/alphagraph/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "embcache"
)

// makeEmbeddingKey generates the cache key for a text embedded by model.
// Format: prefix:model:hash(text)
func makeEmbeddingKey(model, text string) []byte {
	prefix := makeEmbeddingModelPrefix(model)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(text)))
	return buf
}

// makeEmbeddingModelPrefix generates the partial key covering every entry of one model.
func makeEmbeddingModelPrefix(model string) []byte {
	return []byte(embeddingPrefix + ":" + model + ":")
}
