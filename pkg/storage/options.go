package storage

import (
	"fmt"
)

// IndexKind names an index backend.
type IndexKind string

const (
	// SkipListIndex is the default index. A skip list guarded by a RWMutex.
	SkipListIndex IndexKind = "skiplist"

	// SkipMapIndex is a lock free skip list.
	//
	// skipmap can only range from its first key, so every iterator refill walks the
	// map from the head up to the last returned key. A full scan of n keys with
	// ScanBatchSize b costs O(n*n/b) comparisons. Prefer a larger ScanBatchSize or
	// another index for scan heavy workloads.
	SkipMapIndex IndexKind = "skipmap"

	// BTreeIndex is an in-memory B-Tree guarded by a RWMutex.
	BTreeIndex IndexKind = "btree"

	// MemDBIndex is the goleveldb memdb.
	MemDBIndex IndexKind = "memdb"
)

const (
	defaultBTreeDegree   = 32
	defaultMemDBCapacity = 4 * 1024
	defaultScanBatchSize = 64
)

// Options defines all of the configuration options available with the storage layer.
type Options struct {
	// Index selects the index backend.
	// set to empty for SkipListIndex.
	Index IndexKind

	// SkipListHeight is the max level of the skip list index.
	// set to zero for defaultMaxLevel.
	SkipListHeight int32

	// BTreeDegree is the degree of the btree index.
	// set to zero for defaultBTreeDegree.
	BTreeDegree int

	// MemDBCapacity is the initial capacity in bytes of the memdb index.
	// set to zero for defaultMemDBCapacity.
	MemDBCapacity int

	// ScanBatchSize is the number of entries pulled at a time by the iterators
	// of indexes that don't have a native cursor.
	// set to zero for defaultScanBatchSize.
	ScanBatchSize int
}

// withDefaults returns a copy of the options with zero fields set to their defaults.
func (o *Options) withDefaults() Options {
	opts := Options{}
	if o != nil {
		opts = *o
	}

	if opts.Index == "" {
		opts.Index = SkipListIndex
	}
	if opts.SkipListHeight == 0 {
		opts.SkipListHeight = defaultMaxLevel
	}
	if opts.BTreeDegree == 0 {
		opts.BTreeDegree = defaultBTreeDegree
	}
	if opts.MemDBCapacity == 0 {
		opts.MemDBCapacity = defaultMemDBCapacity
	}
	if opts.ScanBatchSize == 0 {
		opts.ScanBatchSize = defaultScanBatchSize
	}
	return opts
}

// validate returns an error if the options can't be used to build an index.
func (o Options) validate() error {
	switch o.Index {
	case SkipListIndex, SkipMapIndex, BTreeIndex, MemDBIndex:
	default:
		return fmt.Errorf("unknown index kind %q", o.Index)
	}
	if o.SkipListHeight < 1 || o.SkipListHeight > maxAllowedLevel {
		return fmt.Errorf("skip list height must be in [1, %d], got %d", maxAllowedLevel, o.SkipListHeight)
	}
	if o.BTreeDegree < 2 {
		return fmt.Errorf("btree degree must be at least 2, got %d", o.BTreeDegree)
	}
	if o.MemDBCapacity < 0 || o.ScanBatchSize < 0 {
		return fmt.Errorf("memdb capacity and scan batch size can't be negative")
	}
	return nil
}
