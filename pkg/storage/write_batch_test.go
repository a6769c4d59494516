package storage

import (
	"testing"

	"github.com/dr0pdb/orderedkv/pkg/common"
	"github.com/dr0pdb/orderedkv/test"
	"github.com/stretchr/testify/assert"
)

func TestWriteBatchEncoding(t *testing.T) {
	wb := &WriteBatch{}
	assert.Equal(t, uint32(0), wb.Count())

	wb.Set(test.TestKeys[0], test.TestValues[0])
	wb.Delete(test.TestKeys[1])
	wb.Set(test.TestKeys[2], nil)
	assert.Equal(t, uint32(3), wb.Count())

	wb.setSeqNum(77)
	assert.Equal(t, uint64(77), wb.getSeqNum())

	records, err := wb.decode()
	assert.Nil(t, err)
	assert.Equal(t, []batchRecord{
		{kind: batchRecordKindSet, key: test.TestKeys[0], value: test.TestValues[0]},
		{kind: batchRecordKindDelete, key: test.TestKeys[1]},
		{kind: batchRecordKindSet, key: test.TestKeys[2], value: []byte{}},
	}, records)
}

func TestWriteBatchReset(t *testing.T) {
	wb := &WriteBatch{}
	wb.Set(test.TestKeys[0], test.TestValues[0])
	wb.setSeqNum(5)
	wb.Reset()

	assert.Equal(t, uint32(0), wb.Count())
	assert.Equal(t, uint64(0), wb.getSeqNum())
	records, err := wb.decode()
	assert.Nil(t, err)
	assert.Empty(t, records)

	// an untouched batch can be reset too
	(&WriteBatch{}).Reset()
}

func TestWriteBatchCorrupt(t *testing.T) {
	// unknown record kind
	wb := &WriteBatch{}
	wb.Set(test.TestKeys[0], test.TestValues[0])
	wb.data[batchHeaderSize] = 7
	_, err := wb.decode()
	assert.IsType(t, common.CorruptBatchError{}, err)

	// count doesn't match the records
	wb = &WriteBatch{}
	wb.Set(test.TestKeys[0], test.TestValues[0])
	wb.incrementCount()
	_, err = wb.decode()
	assert.IsType(t, common.CorruptBatchError{}, err)

	// length prefix longer than the buffer
	wb = &WriteBatch{}
	wb.Delete(test.TestKeys[0])
	wb.data = wb.data[:len(wb.data)-2]
	_, err = wb.decode()
	assert.IsType(t, common.CorruptBatchError{}, err)
}
