package storage

import (
	"fmt"
	"sync"

	"github.com/dr0pdb/orderedkv/pkg/common"
	log "github.com/sirupsen/logrus"
)

// Storage is the in-memory sorted key-value store.
//
// Its comparator is fixed when the storage is created and orders every index
// operation. The requested key always takes the query role.
// It is thread safe and can be accessed concurrently.
type Storage struct {
	options    Options
	comparator Comparator

	// mu guards closed and seqNum. Batches hold it exclusively so they are
	// applied atomically with respect to single operations.
	mu     sync.RWMutex
	closed bool
	seqNum uint64

	idx index
}

// Get returns the value of key.
// returns NotFoundError if the key doesn't exist.
func (s *Storage) Get(key []byte) ([]byte, error) {
	log.WithFields(log.Fields{"key": key}).Debug("storage::storage: Get; start")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, common.NewStorageClosedError("storage is closed")
	}

	value, ok := s.idx.get(NewQueryKey(key))
	if !ok {
		log.WithFields(log.Fields{"key": key}).Debug("storage::storage: Get; key not found")
		return nil, common.NewNotFoundError(fmt.Sprintf("key %q not found", key))
	}
	return value, nil
}

// Set sets the value of key. An existing value is overwritten.
func (s *Storage) Set(key, value []byte) error {
	log.WithFields(log.Fields{"key": key}).Debug("storage::storage: Set; start")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return common.NewStorageClosedError("storage is closed")
	}
	return s.idx.set(NewQueryKey(key), append([]byte{}, value...))
}

// Delete removes key.
// returns NotFoundError if the key doesn't exist.
func (s *Storage) Delete(key []byte) error {
	log.WithFields(log.Fields{"key": key}).Debug("storage::storage: Delete; start")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return common.NewStorageClosedError("storage is closed")
	}

	if !s.idx.delete(NewQueryKey(key)) {
		return common.NewNotFoundError(fmt.Sprintf("key %q not found", key))
	}
	return nil
}

// Apply applies all the records of the batch in order.
//
// The batch is decoded before anything is written, so a corrupt batch leaves the storage untouched.
// Deleting a missing key inside a batch is not an error.
func (s *Storage) Apply(wb *WriteBatch) error {
	log.WithFields(log.Fields{"count": wb.Count()}).Info("storage::storage: Apply; start")

	records, err := wb.decode()
	if err != nil {
		log.WithFields(log.Fields{"error": err.Error()}).Error("storage::storage: Apply; error in decoding the batch")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return common.NewStorageClosedError("storage is closed")
	}

	if len(records) > 0 {
		s.seqNum++
		wb.setSeqNum(s.seqNum)
	}

	for _, r := range records {
		qk := NewQueryKey(r.key)
		switch r.kind {
		case batchRecordKindSet:
			if err := s.idx.set(qk, append([]byte{}, r.value...)); err != nil {
				return err
			}
		case batchRecordKindDelete:
			s.idx.delete(qk)
		}
	}

	log.WithFields(log.Fields{"seq": s.seqNum, "count": len(records)}).Info("storage::storage: Apply; done")
	return nil
}

// Scan returns an iterator positioned at the first key >= start.
// nil start denotes the first key of the storage.
func (s *Storage) Scan(start []byte) Iterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		log.Error("storage::storage: Scan; scan called on a closed storage")
		return emptyIterator{}
	}

	itr := s.idx.newIterator()
	if start == nil {
		itr.SeekToFirst()
	} else {
		itr.Seek(start)
	}
	return itr
}

// PrefixScan returns an iterator over the keys starting with prefix.
func (s *Storage) PrefixScan(prefix []byte) Iterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		log.Error("storage::storage: PrefixScan; scan called on a closed storage")
		return emptyIterator{}
	}

	itr := &prefixIterator{
		itr:    s.idx.newIterator(),
		cmp:    s.comparator,
		prefix: NewQueryKey(prefix),
	}
	itr.SeekToFirst()
	return itr
}

// Len returns the number of keys in the storage.
func (s *Storage) Len() int {
	return s.idx.len()
}

// Comparator returns the comparator ordering the storage.
func (s *Storage) Comparator() Comparator {
	return s.comparator
}

// Close closes the storage. Later operations fail with StorageClosedError.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return common.NewStorageClosedError("storage is already closed")
	}
	s.closed = true
	log.Info("storage::storage: Close; storage closed")
	return nil
}

// NewStorageWithCustomComparator creates a new storage.
//
// Keys are ordered using the given custom comparator for the whole life of the storage.
func NewStorageWithCustomComparator(comparator Comparator, options *Options) (*Storage, error) {
	if comparator == nil {
		return nil, common.NewInvalidConfigError("comparator can't be nil")
	}

	opts := options.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, common.NewInvalidConfigError(err.Error())
	}

	log.WithFields(log.Fields{
		"comparator": comparator.Name(),
		"index":      opts.Index,
	}).Info("storage::storage: NewStorageWithCustomComparator; creating storage")

	return &Storage{
		options:    opts,
		comparator: comparator,
		idx:        newIndex(comparator, opts),
	}, nil
}

// NewStorage creates a new storage ordered by the DefaultComparator.
func NewStorage(options *Options) (*Storage, error) {
	return NewStorageWithCustomComparator(DefaultComparator, options)
}

// NewStorageFromConfig creates a new storage from a store config.
// The comparator is looked up by name among the registered comparators.
func NewStorageFromConfig(conf *common.StoreConfig) (*Storage, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	comparator, err := LookupComparator(conf.Comparator)
	if err != nil {
		return nil, err
	}

	return NewStorageWithCustomComparator(comparator, &Options{
		Index:          IndexKind(conf.Index),
		SkipListHeight: conf.SkipListHeight,
		BTreeDegree:    conf.BTreeDegree,
		MemDBCapacity:  conf.MemDBCapacity,
		ScanBatchSize:  conf.ScanBatchSize,
	})
}

// emptyIterator is never valid.
type emptyIterator struct{}

func (emptyIterator) Valid() bool        { return false }
func (emptyIterator) SeekToFirst()       {}
func (emptyIterator) Seek(target []byte) {}
func (emptyIterator) Next()              { panic("Next on an invalid iterator position.") }
func (emptyIterator) Key() []byte        { panic("Key on an invalid iterator position.") }
func (emptyIterator) Value() []byte      { panic("Value on an invalid iterator position.") }
