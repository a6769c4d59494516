package storage

// index is the sorted structure behind a storage.
//
// Every implementation orders keys only through its Comparator and always passes
// the probe as the QueryKey.
type index interface {
	get(key QueryKey) ([]byte, bool)

	// set inserts or overwrites the value of key.
	set(key QueryKey, value []byte) error

	// delete removes key and reports whether it was present.
	delete(key QueryKey) bool

	len() int

	newIterator() Iterator
}

// newIndex builds the index backend selected in opts.
// opts must already be validated.
func newIndex(comparator Comparator, opts Options) index {
	switch opts.Index {
	case SkipMapIndex:
		return newSkipMapIndex(comparator, opts.ScanBatchSize)
	case BTreeIndex:
		return newBTreeIndex(comparator, opts.BTreeDegree, opts.ScanBatchSize)
	case MemDBIndex:
		return newMemDBIndex(comparator, opts.MemDBCapacity)
	default:
		return &skipListIndex{newSkipList(opts.SkipListHeight, comparator)}
	}
}

// skipListIndex adapts the skip list to the index interface.
type skipListIndex struct {
	*skipList
}

func (si *skipListIndex) get(key QueryKey) ([]byte, bool) {
	node := si.skipList.get(key)
	if node == nil {
		return nil, false
	}
	return node.value, true
}

func (si *skipListIndex) set(key QueryKey, value []byte) error {
	si.skipList.set(key, value)
	return nil
}

func (si *skipListIndex) delete(key QueryKey) bool {
	return si.skipList.delete(key) != nil
}

func (si *skipListIndex) newIterator() Iterator {
	return si.newSkipListIterator()
}
