package storage

// Iterator interface
type Iterator interface {
	// Checks if the current position of the iterator is valid.
	Valid() bool

	// Move to the first entry of the source.
	// Call Valid() to ensure that the iterator is valid after the seek.
	SeekToFirst()

	// Seek the iterator to the first element whose key is >= target
	// Call Valid() to ensure that the iterator is valid after the seek.
	Seek(target []byte)

	// Moves to the next key-value pair in the source.
	// Call valid() to ensure that the iterator is valid.
	// REQUIRES: Current position of iterator is valid. Panic otherwise.
	Next()

	// Get the key of the current iterator position.
	// REQUIRES: Current position of iterator is valid. Panics otherwise.
	Key() []byte

	// Get the value of the current iterator position.
	// REQUIRES: Current position of iterator is valid. Panics otherwise.
	Value() []byte
}

// kv is a single key-value pair buffered by an iterator.
type kv struct {
	key   StoredKey
	value []byte
}

// ascender is implemented by the indexes that only offer callback based traversal.
type ascender interface {
	// ascend calls fn for every entry whose key is >= start in increasing order
	// until fn returns false. nil start denotes the first entry.
	ascend(start *QueryKey, fn func(key StoredKey, value []byte) bool)
}

// batchIterator iterates an ascender by pulling batchSize entries at a time.
// Every refill restarts the traversal right after the last returned key,
// so writes between refills are observed.
type batchIterator struct {
	src       ascender
	cmp       Comparator
	batchSize int

	batch []kv
	pos   int

	// exhausted is set when the last refill returned less than batchSize entries.
	exhausted bool
}

var _ Iterator = (*batchIterator)(nil)

func newBatchIterator(src ascender, cmp Comparator, batchSize int) *batchIterator {
	if batchSize <= 0 {
		batchSize = defaultScanBatchSize
	}
	return &batchIterator{
		src:       src,
		cmp:       cmp,
		batchSize: batchSize,
	}
}

// fill loads the next batch starting at start. skipEqual drops an entry equal to start.
func (bi *batchIterator) fill(start *QueryKey, skipEqual bool) {
	bi.batch = bi.batch[:0]
	bi.pos = 0
	want := bi.batchSize
	if skipEqual {
		want++
	}

	bi.src.ascend(start, func(key StoredKey, value []byte) bool {
		if skipEqual && len(bi.batch) == 0 && bi.cmp.Compare(*start, key) == 0 {
			skipEqual = false
			want--
			return true
		}
		bi.batch = append(bi.batch, kv{key: key, value: value})
		return len(bi.batch) < want
	})

	bi.exhausted = len(bi.batch) < bi.batchSize
}

// Valid checks if the current position of the iterator is valid.
func (bi *batchIterator) Valid() bool {
	return bi.pos < len(bi.batch)
}

// SeekToFirst moves to the first entry of the index.
func (bi *batchIterator) SeekToFirst() {
	bi.fill(nil, false)
}

// Seek moves to the first entry whose key is >= target.
func (bi *batchIterator) Seek(target []byte) {
	start := NewQueryKey(target)
	bi.fill(&start, false)
}

// Next moves to the next entry.
// REQUIRES: Current position of iterator is valid. Panic otherwise.
func (bi *batchIterator) Next() {
	if !bi.Valid() {
		panic("Next on an invalid iterator position.")
	}

	bi.pos++
	if bi.pos < len(bi.batch) || bi.exhausted {
		return
	}

	last := NewQueryKey(bi.batch[len(bi.batch)-1].key)
	bi.fill(&last, true)
}

// Key returns the key of the current iterator position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (bi *batchIterator) Key() []byte {
	if !bi.Valid() {
		panic("Key on an invalid iterator position.")
	}
	return bi.batch[bi.pos].key
}

// Value returns the value of the current iterator position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (bi *batchIterator) Value() []byte {
	if !bi.Valid() {
		panic("Value on an invalid iterator position.")
	}
	return bi.batch[bi.pos].value
}

// prefixIterator limits an iterator to the keys starting with prefix.
// It requires a comparator that orders a prefix before its extensions and keeps
// keys sharing a prefix contiguous, like the byte-wise order.
type prefixIterator struct {
	itr    Iterator
	cmp    Comparator
	prefix QueryKey
}

var _ Iterator = (*prefixIterator)(nil)

// Valid checks if the current position is valid and still within the prefix.
func (pi *prefixIterator) Valid() bool {
	return pi.itr.Valid() && StoredKey(pi.itr.Key()).HasPrefix(pi.prefix)
}

// SeekToFirst moves to the first key with the prefix.
func (pi *prefixIterator) SeekToFirst() {
	pi.itr.Seek(pi.prefix.Bytes())
}

// Seek moves to the first key >= target, but never before the prefix.
func (pi *prefixIterator) Seek(target []byte) {
	if pi.cmp.Compare(pi.prefix, StoredKey(target)) > 0 {
		pi.SeekToFirst()
		return
	}
	pi.itr.Seek(target)
}

// Next moves to the next key.
// REQUIRES: Current position of iterator is valid. Panic otherwise.
func (pi *prefixIterator) Next() {
	if !pi.Valid() {
		panic("Next on an invalid iterator position.")
	}
	pi.itr.Next()
}

// Key returns the key of the current position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (pi *prefixIterator) Key() []byte {
	if !pi.Valid() {
		panic("Key on an invalid iterator position.")
	}
	return pi.itr.Key()
}

// Value returns the value of the current position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (pi *prefixIterator) Value() []byte {
	if !pi.Valid() {
		panic("Value on an invalid iterator position.")
	}
	return pi.itr.Value()
}
