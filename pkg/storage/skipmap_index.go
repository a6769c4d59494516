package storage

import (
	"github.com/zhangyunhao116/skipmap"
)

// skipMapIndex is a lock free index.
//
// skipmap calls its less function with either operand as the probe, so the keys
// are kept padded and both sides satisfy the query key contract.
type skipMapIndex struct {
	m         *skipmap.FuncMap[QueryKey, []byte]
	cmp       Comparator
	batchSize int
}

func newSkipMapIndex(comparator Comparator, batchSize int) *skipMapIndex {
	return &skipMapIndex{
		m: skipmap.NewFunc[QueryKey, []byte](func(a, b QueryKey) bool {
			return comparator.Compare(a, b.Stored()) < 0
		}),
		cmp:       comparator,
		batchSize: batchSize,
	}
}

func (si *skipMapIndex) get(key QueryKey) ([]byte, bool) {
	return si.m.Load(key)
}

func (si *skipMapIndex) set(key QueryKey, value []byte) error {
	si.m.Store(key.clone(), value)
	return nil
}

func (si *skipMapIndex) delete(key QueryKey) bool {
	return si.m.Delete(key)
}

func (si *skipMapIndex) len() int {
	return si.m.Len()
}

// ascend walks the map from its head and skips the keys before start.
// The walk stops as soon as fn returns false.
func (si *skipMapIndex) ascend(start *QueryKey, fn func(key StoredKey, value []byte) bool) {
	si.m.Range(func(k QueryKey, v []byte) bool {
		if start != nil && si.cmp.Compare(*start, k.Stored()) > 0 {
			return true
		}
		return fn(k.Stored(), v)
	})
}

func (si *skipMapIndex) newIterator() Iterator {
	return newBatchIterator(si, si.cmp, si.batchSize)
}
