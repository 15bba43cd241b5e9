package vecindex

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T, dim int) (*Index, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "noseprints.idx")
	ix, err := Open(path, dim, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix, path
}

func TestOpen_CreatesEmptyIndex(t *testing.T) {
	ix, path := openTestIndex(t, 4)
	assert.Equal(t, 0, ix.Snapshot().Count())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, headerSize, info.Size())
}

func TestAdd_AssignsSequentialOrdinals(t *testing.T) {
	ix, _ := openTestIndex(t, 2)

	err := ix.WithWriter(func(w *Writer) error {
		for i := 0; i < 3; i++ {
			ord, err := w.Add([]float32{float32(i), float32(i)})
			require.NoError(t, err)
			assert.EqualValues(t, i, ord)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Snapshot().Count())
}

func TestSearch_NearestNeighbor(t *testing.T) {
	ix, _ := openTestIndex(t, 2)

	require.NoError(t, ix.WithWriter(func(w *Writer) error {
		w.Add([]float32{0, 0})
		w.Add([]float32{10, 10})
		w.Add([]float32{3, 4})
		return nil
	}))

	ord, dist, ok := ix.Snapshot().Search([]float32{3, 3})
	require.True(t, ok)
	assert.EqualValues(t, 2, ord)
	assert.InDelta(t, 1.0, dist, 1e-6)
}

func TestSearch_EmptyIndex(t *testing.T) {
	ix, _ := openTestIndex(t, 2)
	_, _, ok := ix.Snapshot().Search([]float32{1, 2})
	assert.False(t, ok)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	ix, _ := openTestIndex(t, 4)
	err := ix.WithWriter(func(w *Writer) error {
		_, err := w.Add([]float32{1, 2})
		return err
	})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestOpen_ReloadsPersistedVectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noseprints.idx")

	ix, err := Open(path, 3, nil)
	require.NoError(t, err)
	require.NoError(t, ix.WithWriter(func(w *Writer) error {
		w.Add([]float32{1, 2, 3})
		w.Add([]float32{4, 5, 6})
		return nil
	}))
	require.NoError(t, ix.Close())

	reopened, err := Open(path, 3, nil)
	require.NoError(t, err)
	defer reopened.Close()

	snap := reopened.Snapshot()
	assert.Equal(t, 2, snap.Count())
	ord, dist, ok := snap.Search([]float32{4, 5, 6})
	require.True(t, ok)
	assert.EqualValues(t, 1, ord)
	assert.Zero(t, dist)
}

func TestOpen_RecoversFromTruncatedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noseprints.idx")

	ix, err := Open(path, 2, nil)
	require.NoError(t, err)
	require.NoError(t, ix.WithWriter(func(w *Writer) error {
		w.Add([]float32{1, 1})
		w.Add([]float32{2, 2})
		return nil
	}))
	require.NoError(t, ix.Close())

	// Chop half of the second record off, simulating a crash mid-append
	// after the header was already updated.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-6))

	reopened, err := Open(path, 2, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 1, reopened.Snapshot().Count())

	// The rollback is persisted: the header count now matches.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.EqualValues(t, 1, binary.LittleEndian.Uint32(raw[12:16]))
}

func TestOpen_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noseprints.idx")
	require.NoError(t, os.WriteFile(path, []byte("NOTANIDXxxxxxxxx"), 0o644))

	_, err := Open(path, 2, nil)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen_DimensionMismatchIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noseprints.idx")

	ix, err := Open(path, 2, nil)
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	_, err = Open(path, 8, nil)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen_SecondHandleRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noseprints.idx")

	ix, err := Open(path, 2, nil)
	require.NoError(t, err)
	defer ix.Close()

	_, err = Open(path, 2, nil)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestWriter_SearchUnderLock(t *testing.T) {
	ix, _ := openTestIndex(t, 2)

	require.NoError(t, ix.WithWriter(func(w *Writer) error {
		require.Equal(t, 0, w.Count())
		_, _, ok := w.Search([]float32{1, 1})
		require.False(t, ok)

		_, err := w.Add([]float32{1, 1})
		require.NoError(t, err)

		require.Equal(t, 1, w.Count())
		ord, dist, ok := w.Search([]float32{1, 1})
		require.True(t, ok)
		assert.EqualValues(t, 0, ord)
		assert.Zero(t, dist)
		return nil
	}))
}
