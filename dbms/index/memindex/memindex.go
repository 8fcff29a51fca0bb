// Package memindex provides a flat in-memory sorted index behind the
// common Index interface. It exists as a benchmarking baseline for the
// disk-resident B-tree: no blocks, no cache, just two parallel slices.
package memindex

import (
	"fmt"
	"sort"

	"github.com/bindexdb/bindex/dbms/index"
)

// MemIndex keeps keys and values in parallel slices sorted by key.
type MemIndex struct {
	keys   []uint64
	values []uint64
}

// New returns an empty in-memory index.
func New() *MemIndex {
	return &MemIndex{}
}

// Insert adds the pair, keeping the slices sorted. Duplicate keys are
// rejected, matching the B-tree's contract.
func (m *MemIndex) Insert(key, value uint64) error {
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= key })
	if i < len(m.keys) && m.keys[i] == key {
		return fmt.Errorf("memindex: duplicate key %d", key)
	}
	m.keys = append(m.keys, 0)
	m.values = append(m.values, 0)
	copy(m.keys[i+1:], m.keys[i:])
	copy(m.values[i+1:], m.values[i:])
	m.keys[i] = key
	m.values[i] = value
	return nil
}

// Search returns the value stored under key, or false when absent.
func (m *MemIndex) Search(key uint64) (uint64, bool, error) {
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= key })
	if i < len(m.keys) && m.keys[i] == key {
		return m.values[i], true, nil
	}
	return 0, false, nil
}

// Traverse returns every pair in increasing key order.
func (m *MemIndex) Traverse() ([]index.Pair, error) {
	out := make([]index.Pair, len(m.keys))
	for i := range m.keys {
		out[i] = index.Pair{Key: m.keys[i], Value: m.values[i]}
	}
	return out, nil
}

// Close releases nothing; it exists to satisfy the Index interface.
func (m *MemIndex) Close() error { return nil }
