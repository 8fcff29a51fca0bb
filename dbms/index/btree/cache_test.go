package btree

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bindexdb/bindex/dbms/pager"
)

func newTestCache(t *testing.T, capacity int) (*nodeCache, *pager.File) {
	t.Helper()
	f, err := pager.Create(filepath.Join(t.TempDir(), "cache.idx"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return newNodeCache(f, capacity), f
}

func leafNode(id uint64, key uint64) *Node {
	n := &Node{BlockID: id, KeyCount: 1}
	n.Keys[0] = key
	n.Values[0] = key * 10
	return n
}

func readNode(t *testing.T, f *pager.File, id uint64) *Node {
	t.Helper()
	blk, err := f.ReadBlock(id)
	require.NoError(t, err)
	return decodeNode(blk)
}

func TestCacheEvictionWritesBack(t *testing.T) {
	c, f := newTestCache(t, 3)

	for id := uint64(1); id <= 3; id++ {
		require.NoError(t, c.put(id, leafNode(id, id)))
	}
	// Nothing has been evicted, so nothing is on disk yet.
	size, err := f.Size()
	require.NoError(t, err)
	require.Zero(t, size)

	// A fourth node pushes out the least recently used one (block 1).
	require.NoError(t, c.put(4, leafNode(4, 4)))
	require.Equal(t, uint64(1), readNode(t, f, 1).Keys[0])
	_, err = f.ReadBlock(2)
	require.ErrorIs(t, err, pager.ErrShortBlock)
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	c, f := newTestCache(t, 3)

	for id := uint64(1); id <= 3; id++ {
		require.NoError(t, c.put(id, leafNode(id, id)))
	}
	// Touch block 1 so block 2 becomes the eviction victim.
	_, err := c.get(1)
	require.NoError(t, err)
	require.NoError(t, c.put(4, leafNode(4, 4)))

	require.Equal(t, uint64(2), readNode(t, f, 2).BlockID)
	_, err = f.ReadBlock(3)
	require.ErrorIs(t, err, pager.ErrShortBlock)
}

func TestCachePutCoalesces(t *testing.T) {
	c, f := newTestCache(t, 3)

	require.NoError(t, c.put(1, leafNode(1, 100)))
	updated := leafNode(1, 200)
	require.NoError(t, c.put(1, updated))

	// Fill past capacity so block 1 is evicted; only the last state lands.
	for id := uint64(2); id <= 4; id++ {
		require.NoError(t, c.put(id, leafNode(id, id)))
	}
	require.Equal(t, uint64(200), readNode(t, f, 1).Keys[0])
}

func TestCacheClearFlushesAll(t *testing.T) {
	c, f := newTestCache(t, 3)

	require.NoError(t, c.put(1, leafNode(1, 1)))
	require.NoError(t, c.put(2, leafNode(2, 2)))
	require.NoError(t, c.clear())

	require.Equal(t, uint64(1), readNode(t, f, 1).Keys[0])
	require.Equal(t, uint64(2), readNode(t, f, 2).Keys[0])
	require.Empty(t, c.items)
}

func TestCacheGetLoadsFromDisk(t *testing.T) {
	c, _ := newTestCache(t, 3)

	require.NoError(t, c.put(5, leafNode(5, 55)))
	require.NoError(t, c.clear())

	n, err := c.get(5)
	require.NoError(t, err)
	require.Equal(t, uint64(55), n.Keys[0])
}

func TestCacheGetMissingBlock(t *testing.T) {
	c, _ := newTestCache(t, 3)
	_, err := c.get(9)
	require.ErrorIs(t, err, pager.ErrShortBlock)
}
