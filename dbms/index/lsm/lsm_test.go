package lsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertSearchTraverse(t *testing.T) {
	l, err := Open(t.TempDir() + "/pebble")
	require.NoError(t, err)
	defer l.Close()

	for k := uint64(1); k <= 100; k++ {
		require.NoError(t, l.Insert(k, k*10))
	}

	v, found, err := l.Search(42)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(420), v)

	_, found, err = l.Search(1000)
	require.NoError(t, err)
	require.False(t, found)

	pairs, err := l.Traverse()
	require.NoError(t, err)
	require.Len(t, pairs, 100)
	for i, p := range pairs {
		require.Equal(t, uint64(i+1), p.Key)
		require.Equal(t, uint64(i+1)*10, p.Value)
	}
}
