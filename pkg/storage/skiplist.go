package storage

import (
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// defaultMaxLevel is the default max level of the skip list
	defaultMaxLevel int32 = 12

	// maxAllowedLevel is the upper bound of the max level of the skip list
	maxAllowedLevel int32 = 18

	defaultProbability float64 = 0.5
)

// skipList is the probabilistic data structure backing the default index.
// It supports byte key and values along with custom comparators.
//
// Every comparison passes the searched key as the QueryKey and the node key as the StoredKey.
// It can be accessed concurrently.
type skipList struct {
	mutex       sync.RWMutex
	head        *skipListNode
	maxLevel    int32
	comparator  Comparator
	probability float64
	rnd         *rand.Rand
	length      int
}

// get finds an element by key.
//
// returns a pointer to the skip list node if the key is found.
// returns nil in case the node with key is not found.
func (s *skipList) get(key QueryKey) *skipListNode {
	log.WithFields(log.Fields{
		"key": key.Bytes(),
	}).Debug("storage::skiplist: get")

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	next := s.findGreaterOrEqual(key, nil)
	if next != nil && s.comparator.Compare(key, next.key) == 0 {
		return next
	}

	log.WithFields(log.Fields{
		"key": key.Bytes(),
	}).Debug("storage::skiplist: get; Node not found.")

	return nil
}

// set inserts a value in the list associated with the specified key.
//
// Overwrites the data if the key already exists.
// returns a pointer to the inserted/modified skip list node.
func (s *skipList) set(key QueryKey, value []byte) *skipListNode {
	log.WithFields(log.Fields{
		"key": key.Bytes(),
	}).Debug("storage::skiplist: set")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	prevs := make([]*skipListNode, s.maxLevel)
	element := s.findGreaterOrEqual(key, prevs)

	if element != nil && s.comparator.Compare(key, element.key) == 0 {
		log.WithFields(log.Fields{
			"key": key.Bytes(),
		}).Debug("storage::skiplist: set; Found an existing key. Overriding the existing value.")

		element.value = value
		return element
	}

	element = &skipListNode{
		key:   key.Stored().clone(),
		value: value,
		next:  make([]*skipListNode, s.randomLevel()),
	}

	for i := range element.next {
		element.next[i] = prevs[i].next[i]
		prevs[i].next[i] = element
	}
	s.length++

	return element
}

// delete deletes a value in the list associated with the specified key.
//
// returns a pointer to the removed skip list node.
// returns nil if the node isn't found.
func (s *skipList) delete(key QueryKey) *skipListNode {
	log.WithFields(log.Fields{
		"key": key.Bytes(),
	}).Debug("storage::skiplist: delete")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	prevs := make([]*skipListNode, s.maxLevel)
	element := s.findGreaterOrEqual(key, prevs)

	if element != nil && s.comparator.Compare(key, element.key) == 0 {
		for k, v := range element.next {
			prevs[k].next[k] = v
		}
		s.length--

		return element
	}

	log.WithFields(log.Fields{
		"key": key.Bytes(),
	}).Debug("storage::skiplist: delete; Key not found.")

	return nil
}

// len returns the number of nodes in the skip list.
func (s *skipList) len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.length
}

// findGreaterOrEqual returns the first node whose key is >= key.
// If prevs is not nil, it is filled with the last node before key at every level.
// requires the caller to hold the lock.
func (s *skipList) findGreaterOrEqual(key QueryKey, prevs []*skipListNode) *skipListNode {
	var next *skipListNode
	prev := s.head

	for i := s.maxLevel - 1; i >= 0; i-- {
		next = prev.next[i]

		// while the key is bigger than next.key
		for next != nil && s.comparator.Compare(key, next.key) > 0 {
			prev = next
			next = next.next[i]
		}

		if prevs != nil {
			prevs[i] = prev
		}
	}

	return next
}

func (s *skipList) randomLevel() int32 {
	var level int32 = 1

	for level < s.maxLevel && s.rnd.Float64() > s.probability {
		level++
	}

	return level
}

// front returns the first node of the skip list.
// obtains a read lock on the skip list internally.
func (s *skipList) front() *skipListNode {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.head.next[0]
}

// getEqualOrGreater returns the skiplist node with key >= the passed key.
// obtains a read lock on the skip list internally.
// return nil if no such node exists.
func (s *skipList) getEqualOrGreater(key QueryKey) *skipListNode {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.findGreaterOrEqual(key, nil)
}

// nextOf returns the successor of node at the bottom level.
// obtains a read lock on the skip list internally.
func (s *skipList) nextOf(node *skipListNode) *skipListNode {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return node.next[0]
}

// newSkipListIterator returns a new skip list iterator on the skip list.
func (s *skipList) newSkipListIterator() *skipListIterator {
	return &skipListIterator{
		skipList: s,
		node:     nil,
	}
}

type skipListNode struct {
	key   StoredKey
	value []byte
	next  []*skipListNode
}

// skipListIterator is the iterator over the key-value pairs of the skip list.
// It relies on the internal synchronization of the skiplist.
// Multiple threads can access different iterators
// but two threads accessing the same iterator requires external synchronization.
//
// A node removed while the iterator is positioned on it keeps its next pointers,
// so the iterator continues with the successors it had at removal time.
type skipListIterator struct {
	skipList *skipList
	node     *skipListNode
}

var _ Iterator = (*skipListIterator)(nil)

// Valid checks if the current position of the iterator is valid.
func (sli *skipListIterator) Valid() bool {
	return sli.node != nil
}

// SeekToFirst moves to the first entry of the skiplist.
// Call Valid() to ensure that the iterator is valid after the seek.
func (sli *skipListIterator) SeekToFirst() {
	sli.node = sli.skipList.front()
}

// Seek the iterator to the first element whose key is >= target
// Call Valid() to ensure that the iterator is valid after the seek.
func (sli *skipListIterator) Seek(target []byte) {
	sli.node = sli.skipList.getEqualOrGreater(NewQueryKey(target))
}

// Next moves to the next key-value pair in the skiplist.
// Call valid() to ensure that the iterator is valid.
// REQUIRES: Current position of iterator is valid. Panic otherwise.
func (sli *skipListIterator) Next() {
	if !sli.Valid() {
		panic("Next on an invalid iterator position in skiplist.")
	}
	sli.node = sli.skipList.nextOf(sli.node)
}

// Key returns the key of the current iterator position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (sli *skipListIterator) Key() []byte {
	if !sli.Valid() {
		panic("Key on an invalid iterator position in skiplist.")
	}
	return sli.node.key
}

// Value returns the value of the current iterator position.
// REQUIRES: Current position of iterator is valid. Panics otherwise.
func (sli *skipListIterator) Value() []byte {
	if !sli.Valid() {
		panic("Value on an invalid iterator position in skiplist.")
	}
	return sli.node.value
}

// newSkipList creates a new skipList
//
// Passing 0 for maxLevel leads to a default max level.
func newSkipList(maxLevel int32, comparator Comparator) *skipList {
	if maxLevel == 0 {
		maxLevel = defaultMaxLevel
	}

	if maxLevel < 1 || maxLevel > maxAllowedLevel {
		panic("maxLevel for the SkipList must be a positive integer <= 18")
	}

	return &skipList{
		head:        &skipListNode{next: make([]*skipListNode, maxLevel)},
		maxLevel:    maxLevel,
		comparator:  comparator,
		probability: defaultProbability,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
