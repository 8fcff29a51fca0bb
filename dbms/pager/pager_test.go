package pager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "blocks.idx")
}

func TestCreateRefusesExisting(t *testing.T) {
	path := tempPath(t)

	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Create(path)
	require.Error(t, err)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(tempPath(t))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWriteReadRoundTrip(t *testing.T) {
	f, err := Create(tempPath(t))
	require.NoError(t, err)
	defer f.Close()

	var in Block
	for i := range in {
		in[i] = byte(i % 251)
	}
	require.NoError(t, f.WriteBlock(3, &in))

	out, err := f.ReadBlock(3)
	require.NoError(t, err)
	require.Equal(t, in, *out)

	// Writing block 3 extends the file; the gap blocks read as zeros.
	zero, err := f.ReadBlock(1)
	require.NoError(t, err)
	require.Equal(t, Block{}, *zero)
}

func TestReadBeyondEOF(t *testing.T) {
	f, err := Create(tempPath(t))
	require.NoError(t, err)
	defer f.Close()

	var b Block
	require.NoError(t, f.WriteBlock(0, &b))

	_, err = f.ReadBlock(1)
	require.ErrorIs(t, err, ErrShortBlock)
}

func TestCloseIdempotent(t *testing.T) {
	f, err := Create(tempPath(t))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}
