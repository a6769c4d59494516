package storage

import (
	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

// memDBIndex keeps the entries in a goleveldb memdb ordered by the registered comparator.
// memdb is safe for concurrent use.
type memDBIndex struct {
	db *memdb.DB
}

func newMemDBIndex(comparator Comparator, capacity int) *memDBIndex {
	return &memDBIndex{
		db: memdb.New(&levelDBComparer{cmp: comparator}, capacity),
	}
}

// get returns a copy of the value since memdb returns a slice of its own buffer.
func (mi *memDBIndex) get(key QueryKey) ([]byte, bool) {
	value, err := mi.db.Get(key.Bytes())
	if err != nil {
		return nil, false
	}
	return append([]byte{}, value...), true
}

func (mi *memDBIndex) set(key QueryKey, value []byte) error {
	return mi.db.Put(key.Bytes(), value)
}

func (mi *memDBIndex) delete(key QueryKey) bool {
	err := mi.db.Delete(key.Bytes())
	if err != nil && err != memdb.ErrNotFound {
		log.WithFields(log.Fields{"key": key.Bytes(), "error": err.Error()}).Error("storage::memdb_index: delete; unexpected error from memdb.")
	}
	return err == nil
}

func (mi *memDBIndex) len() int {
	return mi.db.Len()
}

func (mi *memDBIndex) newIterator() Iterator {
	return &memDBIterator{db: mi.db}
}

// memDBIterator wraps a memdb iterator.
// Keys and values are copied since memdb reuses its buffers.
//
// Every seek opens a new memdb iterator and releases the previous one. The memdb
// iterator is also released as soon as it runs past the last entry.
type memDBIterator struct {
	db    *memdb.DB
	itr   iterator.Iterator
	valid bool
}

// reset releases the current memdb iterator and opens a new one.
func (mi *memDBIterator) reset() {
	mi.release()
	mi.itr = mi.db.NewIterator(nil)
}

// release releases the memdb iterator if it is still held.
func (mi *memDBIterator) release() {
	if mi.itr != nil {
		mi.itr.Release()
		mi.itr = nil
	}
}

// settle records the validity of the last move and releases an exhausted iterator.
func (mi *memDBIterator) settle(valid bool) {
	mi.valid = valid
	if !valid {
		mi.release()
	}
}

var _ Iterator = (*memDBIterator)(nil)

// Valid checks if the current position of the iterator is valid.
func (mi *memDBIterator) Valid() bool {
	return mi.valid
}

// SeekToFirst moves to the first entry.
func (mi *memDBIterator) SeekToFirst() {
	mi.reset()
	mi.settle(mi.itr.First())
}

// Seek moves to the first entry whose key is >= target.
func (mi *memDBIterator) Seek(target []byte) {
	mi.reset()
	mi.settle(mi.itr.Seek(target))
}

// Next moves to the next entry.
// REQUIRES: Current position of iterator is valid. Panic otherwise.
func (mi *memDBIterator) Next() {
	if !mi.valid {
		panic("Next on an invalid iterator position in memdb.")
	}
	mi.settle(mi.itr.Next())
}

// Key returns the key of the current iterator position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (mi *memDBIterator) Key() []byte {
	if !mi.valid {
		panic("Key on an invalid iterator position in memdb.")
	}
	return append([]byte{}, mi.itr.Key()...)
}

// Value returns the value of the current iterator position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (mi *memDBIterator) Value() []byte {
	if !mi.valid {
		panic("Value on an invalid iterator position in memdb.")
	}
	return append([]byte{}, mi.itr.Value()...)
}
