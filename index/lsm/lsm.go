// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so the B-tree can be benchmarked against a
// production write-optimized store.
package lsm

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/Arshdeep54/indexium/index"
)

var _ index.Index = (*LSM)(nil)

// LSM is a Pebble database exposed through the Index interface.
type LSM struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at the given directory path.
func Open(dir string) (*LSM, error) {
	opts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("lsm: open: %w", err)
	}
	return &LSM{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (l *LSM) Close() error {
	return l.db.Close()
}

// Insert inserts or updates the value for key.
func (l *LSM) Insert(key int32, value string) error {
	return l.db.Set(encodeKey(key), []byte(value), pebble.NoSync)
}

// Get retrieves the value for key.
func (l *LSM) Get(key int32) (string, error) {
	val, closer, err := l.db.Get(encodeKey(key))
	if err == pebble.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lsm: get: %w", err)
	}
	// val is only valid until closer.Close(), so we copy it.
	result := string(val)
	closer.Close()
	return result, nil
}

// Delete removes the key from the store.
func (l *LSM) Delete(key int32) error {
	if err := l.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return fmt.Errorf("lsm: delete: %w", err)
	}
	return nil
}

// Range returns an iterator over all keys in [start, end] inclusive.
func (l *LSM) Range(start, end int32) (index.Iterator, error) {
	iterOpts := &pebble.IterOptions{
		LowerBound: encodeKey(start),
		UpperBound: encodeKeyExclusive(end),
	}
	iter, err := l.db.NewIter(iterOpts)
	if err != nil {
		return nil, fmt.Errorf("lsm: range: %w", err)
	}
	iter.First()
	return &rangeIterator{iter: iter, first: true}, nil
}

// encodeKey flips the sign bit and writes big-endian, so the byte order
// Pebble sorts by matches signed numeric order.
func encodeKey(k int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(k)^(1<<31))
	return b
}

// encodeKeyExclusive returns the exclusive upper bound for Pebble's
// UpperBound option (which is exclusive, unlike our interface).
func encodeKeyExclusive(k int32) []byte {
	b := make([]byte, 5)
	copy(b, encodeKey(k))
	// One past the inclusive bound without overflowing int32.
	b[4] = 1
	return b
}

type rangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   int32
	val   string
	err   error
}

func (it *rangeIterator) Next() bool {
	var valid bool
	if it.first {
		// iter.First() was already called in Range(); just check validity.
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		return false
	}
	k := it.iter.Key()
	if len(k) != 4 {
		it.err = fmt.Errorf("lsm: unexpected key length %d", len(k))
		return false
	}
	it.key = int32(binary.BigEndian.Uint32(k) ^ (1 << 31))
	it.val = string(it.iter.Value())
	return true
}

func (it *rangeIterator) Key() int32    { return it.key }
func (it *rangeIterator) Value() string { return it.val }
func (it *rangeIterator) Error() error  { return it.err }
func (it *rangeIterator) Close() error  { return it.iter.Close() }
