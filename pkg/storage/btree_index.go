package storage

import (
	"sync"

	"github.com/google/btree"
)

type btreeItem struct {
	key   QueryKey
	value []byte
}

// btreeIndex is an in-memory B-Tree index.
// Items keep their keys padded so the tree may use either item as the probe.
type btreeIndex struct {
	mu        sync.RWMutex
	tree      *btree.BTreeG[btreeItem]
	cmp       Comparator
	batchSize int
}

func newBTreeIndex(comparator Comparator, degree, batchSize int) *btreeIndex {
	return &btreeIndex{
		tree: btree.NewG[btreeItem](degree, func(a, b btreeItem) bool {
			return comparator.Compare(a.key, b.key.Stored()) < 0
		}),
		cmp:       comparator,
		batchSize: batchSize,
	}
}

func (bi *btreeIndex) get(key QueryKey) ([]byte, bool) {
	bi.mu.RLock()
	defer bi.mu.RUnlock()

	item, ok := bi.tree.Get(btreeItem{key: key})
	return item.value, ok
}

func (bi *btreeIndex) set(key QueryKey, value []byte) error {
	bi.mu.Lock()
	defer bi.mu.Unlock()

	bi.tree.ReplaceOrInsert(btreeItem{key: key.clone(), value: value})
	return nil
}

func (bi *btreeIndex) delete(key QueryKey) bool {
	bi.mu.Lock()
	defer bi.mu.Unlock()

	_, ok := bi.tree.Delete(btreeItem{key: key})
	return ok
}

func (bi *btreeIndex) len() int {
	bi.mu.RLock()
	defer bi.mu.RUnlock()
	return bi.tree.Len()
}

func (bi *btreeIndex) ascend(start *QueryKey, fn func(key StoredKey, value []byte) bool) {
	bi.mu.RLock()
	defer bi.mu.RUnlock()

	visit := func(item btreeItem) bool {
		return fn(item.key.Stored(), item.value)
	}
	if start == nil {
		bi.tree.Ascend(visit)
		return
	}
	bi.tree.AscendGreaterOrEqual(btreeItem{key: *start}, visit)
}

func (bi *btreeIndex) newIterator() Iterator {
	return newBatchIterator(bi, bi.cmp, bi.batchSize)
}
