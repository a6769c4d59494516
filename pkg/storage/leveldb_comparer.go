package storage

import (
	"github.com/syndtr/goleveldb/leveldb/comparer"
)

// levelDBComparer registers a Comparator with goleveldb.
//
// goleveldb passes plain slices in either order, so the first operand is copied
// into a padded query key before every comparison.
type levelDBComparer struct {
	cmp Comparator
}

var _ comparer.Comparer = (*levelDBComparer)(nil)

func (c *levelDBComparer) Compare(a, b []byte) int {
	return c.cmp.Compare(NewQueryKey(a), StoredKey(b))
}

func (c *levelDBComparer) Name() string {
	return c.cmp.Name()
}

// Separator returns a short key in [a, b) or nil if a can't be shortened.
func (c *levelDBComparer) Separator(dst, a, b []byte) []byte {
	i, n := 0, len(a)
	if n > len(b) {
		n = len(b)
	}
	for ; i < n && a[i] == b[i]; i++ {
	}
	if i >= n {
		// one is a prefix of the other
		return nil
	}
	if ch := a[i]; ch < 0xff && ch+1 < b[i] {
		dst = append(dst, a[:i+1]...)
		dst[len(dst)-1]++
		return dst
	}
	return nil
}

// Successor returns a short key >= b or nil if b is all 0xff.
func (c *levelDBComparer) Successor(dst, b []byte) []byte {
	for i, ch := range b {
		if ch != 0xff {
			dst = append(dst, b[:i+1]...)
			dst[len(dst)-1]++
			return dst
		}
	}
	return nil
}
