package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/dr0pdb/orderedkv/pkg/common"
	log "github.com/sirupsen/logrus"
)

// Comparator defines a total ordering over the key space.
// It is the ordering callback of every index backend.
type Comparator interface {
	// Compare returns a negative number, zero or a positive number if a is less than,
	// equal to or greater than b respectively. Only the sign is meaningful.
	//
	// a is always the probe supplied by the operation and b is always the key
	// resident in the index. The roles are never swapped.
	// empty key is less than any non-empty key.
	Compare(a QueryKey, b StoredKey) int

	// Name returns the name of the comparator
	//
	// The data is stored in the sorted order determined by a comparator.
	// Hence opening a database with a different comparator than the one it was
	// created with will cause an error
	Name() string
}

// DefaultComparator compares four bytes at a time as big endian words.
var DefaultComparator Comparator = wordComparator{}

// BytewiseComparator compares one byte at a time.
// It defines the same order as DefaultComparator.
var BytewiseComparator Comparator = bytewiseComparator{}

type wordComparator struct{}

func (wordComparator) Compare(a QueryKey, b StoredKey) int {
	return Compare(a, b)
}

func (wordComparator) Name() string {
	return "orderedkv.WordComparator"
}

type bytewiseComparator struct{}

func (bytewiseComparator) Compare(a QueryKey, b StoredKey) int {
	return bytes.Compare(a.Bytes(), b)
}

func (bytewiseComparator) Name() string {
	return "orderedkv.BytewiseComparator"
}

// Compare orders a and b as unsigned lexicographic byte strings with the shorter
// key first when one is a prefix of the other.
//
// Both keys are walked in 4 byte big endian words while at least a full word of b
// remains. The padding of a makes its words always readable. The final partial word
// of b is copied into a zeroed scratch word, which is the same zero extension a
// already carries.
func Compare(a QueryKey, b StoredKey) int {
	pa, pb := a.buf, []byte(b)

	for len(pb) >= wordSize {
		if len(pa) < wordSize {
			// a is exhausted: it is a zero extended prefix of b.
			return a.n - len(b)
		}

		aw := binary.BigEndian.Uint32(pa)
		bw := binary.BigEndian.Uint32(pb)
		if aw > bw {
			return 1
		}
		if aw < bw {
			return -1
		}

		pa, pb = pa[wordSize:], pb[wordSize:]
	}

	if remaining := len(pb); remaining > 0 {
		if len(pa) < wordSize {
			return a.n - len(b)
		}

		var tail [wordSize]byte
		copy(tail[:], pb)

		aw := binary.BigEndian.Uint32(pa)
		bw := binary.BigEndian.Uint32(tail[:])
		if aw > bw {
			return 1
		}
		if aw < bw {
			return -1
		}
	}

	return a.n - len(b)
}

var (
	registryMu  sync.RWMutex
	comparators = map[string]Comparator{}
)

func init() {
	mustRegister(DefaultComparator)
	mustRegister(BytewiseComparator)
}

func mustRegister(c Comparator) {
	if err := RegisterComparator(c); err != nil {
		panic(err)
	}
}

// RegisterComparator makes a comparator available by its name.
//
// A name can only be registered once.
// returns ComparatorExistsError if the name is already taken.
func RegisterComparator(c Comparator) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := c.Name()
	if _, ok := comparators[name]; ok {
		log.WithFields(log.Fields{"name": name}).Error("storage::comparator: RegisterComparator; comparator already registered.")
		return common.NewComparatorExistsError(fmt.Sprintf("comparator %s is already registered", name))
	}

	comparators[name] = c
	log.WithFields(log.Fields{"name": name}).Debug("storage::comparator: RegisterComparator; registered comparator.")
	return nil
}

// LookupComparator returns the comparator registered with the given name.
// returns NotFoundError if no such comparator exists.
func LookupComparator(name string) (Comparator, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, ok := comparators[name]
	if !ok {
		return nil, common.NewNotFoundError(fmt.Sprintf("comparator %s is not registered", name))
	}
	return c, nil
}
