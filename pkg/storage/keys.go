package storage

import (
	"bytes"
	"fmt"

	"github.com/dr0pdb/orderedkv/pkg/common"
)

// wordSize is the number of bytes compared at a time.
const wordSize = 4

// QueryKey is the key supplied by a lookup, insert or range operation.
//
// Its buffer is always a multiple of wordSize bytes long and every byte past
// the logical length is zero. The comparator relies on this to read whole
// words from the query side without masking.
type QueryKey struct {
	buf []byte
	n   int
}

// StoredKey is a key already resident in the sorted index.
// Only its length is trustworthy; nothing past it is ever read.
type StoredKey []byte

// paddedLen rounds n up to the next multiple of wordSize.
func paddedLen(n int) int {
	return (n + wordSize - 1) &^ (wordSize - 1)
}

// NewQueryKey copies key into a zero padded buffer.
func NewQueryKey(key []byte) QueryKey {
	buf := make([]byte, paddedLen(len(key)))
	copy(buf, key)
	return QueryKey{buf: buf, n: len(key)}
}

// NewQueryKeyFromPadded wraps buf without copying. buf[:n] is the logical key.
//
// returns InvalidKeyError if len(buf) is not a multiple of 4, if n is out of range
// or if any byte of buf[n:] is non zero.
func NewQueryKeyFromPadded(buf []byte, n int) (QueryKey, error) {
	if len(buf)%wordSize != 0 {
		return QueryKey{}, common.NewInvalidKeyError(fmt.Sprintf("query key buffer length %d is not a multiple of %d", len(buf), wordSize))
	}
	if n < 0 || n > len(buf) {
		return QueryKey{}, common.NewInvalidKeyError(fmt.Sprintf("query key length %d doesn't fit buffer of length %d", n, len(buf)))
	}
	for _, b := range buf[n:] {
		if b != 0 {
			return QueryKey{}, common.NewInvalidKeyError("query key padding must be zero")
		}
	}
	return QueryKey{buf: buf, n: n}, nil
}

// Len returns the logical length of the key.
func (q QueryKey) Len() int {
	return q.n
}

// Bytes returns the logical bytes of the key without padding.
func (q QueryKey) Bytes() []byte {
	return q.buf[:q.n]
}

// Stored returns a stored key view over the logical bytes of q.
// The view shares memory with q.
func (q QueryKey) Stored() StoredKey {
	return StoredKey(q.buf[:q.n:q.n])
}

// clone returns a query key that doesn't alias the caller's buffer.
func (q QueryKey) clone() QueryKey {
	buf := make([]byte, len(q.buf))
	copy(buf, q.buf)
	return QueryKey{buf: buf, n: q.n}
}

// HasPrefix reports whether the stored key starts with the logical bytes of prefix.
func (s StoredKey) HasPrefix(prefix QueryKey) bool {
	return bytes.HasPrefix(s, prefix.Bytes())
}

// clone returns a copy of s that doesn't alias the caller's buffer.
func (s StoredKey) clone() StoredKey {
	c := make(StoredKey, len(s))
	copy(c, s)
	return c
}
