package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, b Blob) []byte {
	t.Helper()
	data, err := io.ReadAll(NewReader(b))
	require.NoError(t, err)
	return data
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.arff"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.arff"), []byte("world!"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "deep", "c.txt"), []byte("x"), 0o644))

	store := NewLocalStore(root)
	assert.Equal(t, root, store.Root())

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff", "sub/b.arff", "sub/deep/c.txt"}, names)

		names, err = store.List(ctx, "sub/")
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/b.arff", "sub/deep/c.txt"}, names)
	})

	t.Run("Open", func(t *testing.T) {
		b, err := store.Open(ctx, "sub/b.arff")
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, int64(6), b.Size())
		assert.Equal(t, []byte("world!"), readAll(t, b))

		buf := make([]byte, 3)
		n, err := b.ReadAt(buf, 4)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("ListDepth", func(t *testing.T) {
		names, err := store.ListDepth(ctx, "", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff"}, names)

		names, err = store.ListDepth(ctx, "", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff", "sub/b.arff"}, names)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "missing.arff")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.List(cctx, "")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("abc")
	require.NoError(t, store.Put(ctx, "x/one.arff", src))
	require.NoError(t, store.Put(ctx, "two.arff", []byte("defg")))
	src[0] = 'z'

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"two.arff", "x/one.arff"}, names)

	names, err = store.List(ctx, "x/")
	require.NoError(t, err)
	assert.Equal(t, []string{"x/one.arff"}, names)

	b, err := store.Open(ctx, "x/one.arff")
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.Size())
	assert.Equal(t, []byte("abc"), readAll(t, b))
	require.NoError(t, b.Close())

	_, err = store.Open(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_UnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "x.arff"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.arff"), nil, 0o644))
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	names, err := NewLocalStore(root).List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.arff"}, names)
}

// listOnly hides the DepthLister implementation of the wrapped store.
type listOnly struct{ BlobStore }

func TestListDepth(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"a.arff", "d/b.arff", "d/e/c.arff"} {
		require.NoError(t, store.Put(ctx, name, nil))
	}

	for _, s := range []BlobStore{store, listOnly{store}} {
		names, err := ListDepth(ctx, s, "", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff"}, names)

		names, err = ListDepth(ctx, s, "", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff", "d/b.arff"}, names)

		names, err = ListDepth(ctx, s, "", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff", "d/b.arff", "d/e/c.arff"}, names)
	}
}

func TestBytesBlob(t *testing.T) {
	b := BytesBlob([]byte("0123456789"))

	buf := make([]byte, 4)
	n, err := b.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "2345", string(buf))

	n, err = b.ReadAt(buf, 8)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = b.ReadAt(buf, 10)
	assert.ErrorIs(t, err, io.EOF)
}
