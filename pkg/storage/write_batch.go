package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/dr0pdb/orderedkv/pkg/common"
	log "github.com/sirupsen/logrus"
)

// header has 8 bytes of sequence number and 4 bytes for the count of records.
const batchHeaderSize = 12

type batchRecordKind uint8

const (
	batchRecordKindDelete batchRecordKind = 0
	batchRecordKindSet    batchRecordKind = 1
)

// WriteBatch contains a number of Set/Delete records applied atomically.
// Refer to https://github.com/google/leveldb/blob/master/db/write_batch.cc for format.
type WriteBatch struct {
	data []byte
}

// init initializes a write batch with size headerSize and capacity cap rounded to nearest power of 2.
func (wb *WriteBatch) init(cap int) {
	icap := 256
	for icap < cap {
		icap *= 2
	}
	wb.data = make([]byte, batchHeaderSize, icap)
}

// Set adds a value for the given key in the write batch.
func (wb *WriteBatch) Set(key, value []byte) {
	log.WithFields(log.Fields{"key": key}).Debug("storage::write_batch: Set; start")
	if len(wb.data) == 0 {
		wb.init(len(key) + len(value) + 2*binary.MaxVarintLen64 + batchHeaderSize)
	}

	if wb.incrementCount() {
		wb.data = append(wb.data, byte(batchRecordKindSet))
		wb.appendStr(key)
		wb.appendStr(value)
	} else {
		log.Error("storage::write_batch: Set; error in incrementing count")
	}
}

// Delete adds a delete entry for the given key in the write batch.
func (wb *WriteBatch) Delete(key []byte) {
	log.WithFields(log.Fields{"key": key}).Debug("storage::write_batch: Delete; start")

	if len(wb.data) == 0 {
		wb.init(len(key) + binary.MaxVarintLen64 + batchHeaderSize)
	}

	if wb.incrementCount() {
		wb.data = append(wb.data, byte(batchRecordKindDelete))
		wb.appendStr(key)
	} else {
		log.Error("storage::write_batch: Delete; error in incrementing count")
	}
}

// Count returns the number of records in the batch.
func (wb *WriteBatch) Count() uint32 {
	if len(wb.data) == 0 {
		return 0
	}
	return binary.LittleEndian.Uint32(wb.getCountData())
}

// Reset empties the batch keeping the allocated buffer.
func (wb *WriteBatch) Reset() {
	if len(wb.data) == 0 {
		return
	}
	wb.data = wb.data[:batchHeaderSize]
	for i := range wb.data {
		wb.data[i] = 0
	}
}

func (wb *WriteBatch) getSeqNumData() []byte {
	return wb.data[:8]
}

func (wb *WriteBatch) getCountData() []byte {
	return wb.data[8:12]
}

func (wb *WriteBatch) incrementCount() bool {
	d := wb.getCountData()
	for i := range d {
		d[i]++
		if d[i] != 0x00 {
			return true
		}
	}

	// invalid
	d[0] = 0xff
	d[1] = 0xff
	d[2] = 0xff
	d[3] = 0xff

	return false
}

func (wb *WriteBatch) appendStr(s []byte) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(s)))
	wb.data = append(wb.data, buf[:n]...)
	wb.data = append(wb.data, s...)
}

func (wb *WriteBatch) setSeqNum(seqNum uint64) {
	binary.LittleEndian.PutUint64(wb.getSeqNumData(), seqNum)
}

func (wb *WriteBatch) getSeqNum() uint64 {
	return binary.LittleEndian.Uint64(wb.getSeqNumData())
}

func (wb *WriteBatch) getIterator() batchRecordIterator {
	return wb.data[batchHeaderSize:]
}

// batchRecord is a single decoded record of a write batch.
type batchRecord struct {
	kind  batchRecordKind
	key   []byte
	value []byte
}

// decode returns all the records of the batch.
// returns CorruptBatchError if the records don't match the header count.
func (wb *WriteBatch) decode() ([]batchRecord, error) {
	count := wb.Count()
	if len(wb.data) == 0 {
		return nil, nil
	}

	records := make([]batchRecord, 0, count)
	bi := wb.getIterator()
	for len(bi) > 0 {
		kind, key, value, ok := bi.next()
		if !ok {
			return nil, common.NewCorruptBatchError(fmt.Sprintf("corrupt record at index %d", len(records)))
		}
		records = append(records, batchRecord{kind: kind, key: key, value: value})
	}

	if uint32(len(records)) != count {
		return nil, common.NewCorruptBatchError(fmt.Sprintf("batch header count %d doesn't match %d records", count, len(records)))
	}
	return records, nil
}

type batchRecordIterator []byte

func (bi *batchRecordIterator) next() (kind batchRecordKind, ukey []byte, value []byte, ok bool) {
	tmp := *bi
	if len(tmp) == 0 {
		log.Error("storage::write_batch: next; next called on an empty batch iterator")
		return 0, nil, nil, false
	}

	kind, *bi = batchRecordKind(tmp[0]), tmp[1:]
	if kind != batchRecordKindSet && kind != batchRecordKindDelete {
		log.WithFields(log.Fields{"kind": kind}).Error("storage::write_batch: next; unknown record kind.")
		return 0, nil, nil, false
	}

	ukey, ok = bi.nextString()
	if !ok {
		log.Error("storage::write_batch: next; key for record not found.")
		return 0, nil, nil, ok
	}

	if kind == batchRecordKindSet {
		value, ok = bi.nextString()
		if !ok {
			log.Error("storage::write_batch: next; value for set record not found.")
			return 0, nil, nil, ok
		}
	}

	return kind, ukey, value, true
}

// nextString gets the next string from the batch.
// it reads the length of the string stored as varint and then reads the actual string
func (bi *batchRecordIterator) nextString() (s []byte, ok bool) {
	tmp := *bi

	// u is the length of the string.
	u, numBytes := binary.Uvarint(tmp)
	if numBytes <= 0 {
		log.Error("storage::write_batch: nextString; corrupt value of length of the string.")
		return nil, false
	}

	tmp = tmp[numBytes:]
	if u > uint64(len(tmp)) {
		log.Error("storage::write_batch: nextString; corrupt value of length of string. u is greater than the length of the buffer.")
		return nil, false
	}

	s, *bi = tmp[:u], tmp[u:]
	return s, true
}
