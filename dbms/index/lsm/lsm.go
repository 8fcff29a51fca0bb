// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so the block-file B-tree can be benchmarked
// against a production engine.
package lsm

import (
	"encoding/binary"
	"fmt"

	"github.com/bindexdb/bindex/dbms/index"
	"github.com/cockroachdb/pebble"
)

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
func (l *LSM) Insert(key, value uint64) error {
	return l.db.Set(encode(key), encode(value), pebble.NoSync)
}

// Search retrieves the value for key.
func (l *LSM) Search(key uint64) (uint64, bool, error) {
	val, closer, err := l.db.Get(encode(key))
	if err == pebble.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lsm: get: %w", err)
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, false, fmt.Errorf("lsm: unexpected value length %d", len(val))
	}
	return binary.BigEndian.Uint64(val), true, nil
}

// Traverse returns every pair in increasing key order.
func (l *LSM) Traverse() ([]index.Pair, error) {
	iter, err := l.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("lsm: iter: %w", err)
	}
	defer iter.Close()

	var out []index.Pair
	for valid := iter.First(); valid; valid = iter.Next() {
		k := iter.Key()
		v := iter.Value()
		if len(k) != 8 || len(v) != 8 {
			return nil, fmt.Errorf("lsm: unexpected entry lengths %d/%d", len(k), len(v))
		}
		out = append(out, index.Pair{
			Key:   binary.BigEndian.Uint64(k),
			Value: binary.BigEndian.Uint64(v),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("lsm: scan: %w", err)
	}
	return out, nil
}

// encode encodes a uint64 as a big-endian 8-byte slice. Big-endian
// preserves sort order, which Pebble relies on.
func encode(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
