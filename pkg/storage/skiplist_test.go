package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	key1   = NewQueryKey([]byte("Key1"))
	key2   = NewQueryKey([]byte("Key2"))
	key3   = NewQueryKey([]byte("Key3"))
	key4   = NewQueryKey([]byte("Key4"))
	key5   = NewQueryKey([]byte("Key5"))
	value1 = []byte("Value 1")
	value2 = []byte("Value 2")
	value3 = []byte("Value 3")
	value4 = []byte("Value 4")
	value5 = []byte("Value 5")
)

// TestBasicCRUD tests the basic CRUD operations on the skip list
func TestBasicCRUD(t *testing.T) {
	skipList := newSkipList(10, DefaultComparator)

	skipList.set(key1, value1)
	skipList.set(key2, value2)
	skipList.set(key3, value3)

	key1Node := skipList.get(key1)
	assert.Equal(t, value1, key1Node.value, "Value for Key1 is different than what's set in Skiplist.")

	skipList.set(key4, value4)
	skipList.set(key5, value5)

	key2Node := skipList.get(key2)
	assert.Equal(t, value2, key2Node.value, "Value for Key2 is different than what's set in Skiplist.")

	key5Node := skipList.get(key5)
	assert.Equal(t, value5, key5Node.value, "Value for Key5 is different than what's set in Skiplist.")
	assert.Equal(t, 5, skipList.len())

	key2Node = skipList.delete(key2)
	assert.NotNil(t, key2Node)
	assert.Nil(t, skipList.get(key2))
	assert.Nil(t, skipList.delete(key2), "Deleting a missing key should return nil.")
	assert.Equal(t, 4, skipList.len())

	key2Node = skipList.set(key2, value2)
	assert.Equal(t, value2, key2Node.value, "Value for Key2 is different than what's set in Skiplist.")

	// overwrite keeps a single node
	skipList.set(key2, value3)
	assert.Equal(t, value3, skipList.get(key2).value, "Value for Key2 should be overwritten.")
	assert.Equal(t, 5, skipList.len())
}

// TestPrefixKeys checks that keys sharing a prefix are distinct nodes.
func TestPrefixKeys(t *testing.T) {
	skipList := newSkipList(0, DefaultComparator)

	keys := [][]byte{{0x01, 0x00, 0x00}, {0x01}, {0x01, 0x00}, {}, {0x01, 0x00, 0x00, 0x00, 0x00}}
	for i, k := range keys {
		skipList.set(NewQueryKey(k), []byte{byte(i)})
	}
	assert.Equal(t, len(keys), skipList.len())

	for i, k := range keys {
		node := skipList.get(NewQueryKey(k))
		assert.NotNil(t, node, fmt.Sprintf("key % x not found", k))
		assert.Equal(t, []byte{byte(i)}, node.value, fmt.Sprintf("unexpected value for key % x", k))
	}

	itr := skipList.newSkipListIterator()
	itr.SeekToFirst()
	expected := [][]byte{{}, {0x01}, {0x01, 0x00}, {0x01, 0x00, 0x00}, {0x01, 0x00, 0x00, 0x00, 0x00}}
	for _, k := range expected {
		assert.True(t, itr.Valid())
		assert.Equal(t, k, itr.Key())
		itr.Next()
	}
	assert.False(t, itr.Valid())
}

func TestSkipListIterator(t *testing.T) {
	skipList := newSkipList(10, DefaultComparator)
	for _, k := range []QueryKey{key5, key3, key1, key4, key2} {
		skipList.set(k, k.Bytes())
	}

	itr := skipList.newSkipListIterator()
	assert.False(t, itr.Valid(), "A new iterator shouldn't be valid before seeking.")

	itr.Seek([]byte("Key25"))
	assert.True(t, itr.Valid())
	assert.Equal(t, key3.Bytes(), itr.Key())

	itr.Seek([]byte("Key6"))
	assert.False(t, itr.Valid(), "Seeking past the last key should invalidate the iterator.")
	assert.Panics(t, func() { itr.Next() })
	assert.Panics(t, func() { itr.Key() })
	assert.Panics(t, func() { itr.Value() })
}

func TestNewSkipListInvalidLevel(t *testing.T) {
	assert.Panics(t, func() { newSkipList(-1, DefaultComparator) })
	assert.Panics(t, func() { newSkipList(maxAllowedLevel+1, DefaultComparator) })
	assert.Equal(t, defaultMaxLevel, newSkipList(0, DefaultComparator).maxLevel)
}

// TestConcurrency tests the concurrency operations on the skip list
func TestConcurrency(t *testing.T) {
	skipList := newSkipList(10, DefaultComparator)
	l := 10000

	wg := &sync.WaitGroup{}
	wg.Add(2)

	go func() {
		for i := 0; i < l; i++ {
			k := []byte(fmt.Sprintf("%d", i))
			skipList.set(NewQueryKey(k), k)
		}
		wg.Done()
	}()

	go func() {
		for i := 0; i < l; i++ {
			k := []byte(fmt.Sprintf("%d", i+l))
			skipList.set(NewQueryKey(k), k)
		}
		wg.Done()
	}()

	wg.Wait()

	assert.Equal(t, 2*l, skipList.len())
	for i := 0; i < l; i++ {
		k1 := []byte(fmt.Sprintf("%d", i))
		k2 := []byte(fmt.Sprintf("%d", i+l))
		node1 := skipList.get(NewQueryKey(k1))
		node2 := skipList.get(NewQueryKey(k2))
		assert.NotNil(t, node1)
		assert.NotNil(t, node2)
		assert.Equal(t, k1, node1.value, "Value mismatch in concurrency testing.")
		assert.Equal(t, k2, node2.value, "Value mismatch in concurrency testing.")
	}
}
