package blobstore

import (
	"context"
	"io"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// List returns the names of all blobs starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// DepthLister is implemented by stores that can stop listing at a given
// number of path segments without visiting deeper levels. Depth 1 lists the
// blobs directly at the root; depth 0 or less is unlimited.
type DepthLister interface {
	ListDepth(ctx context.Context, prefix string, depth int) ([]string, error)
}

// ListDepth lists store down to depth, filtering the full listing when the
// store cannot bound the walk itself.
func ListDepth(ctx context.Context, store BlobStore, prefix string, depth int) ([]string, error) {
	if dl, ok := store.(DepthLister); ok {
		return dl.ListDepth(ctx, prefix, depth)
	}
	names, err := store.List(ctx, prefix)
	if err != nil || depth <= 0 {
		return names, err
	}
	out := names[:0]
	for _, name := range names {
		if withinDepth(name, depth) {
			out = append(out, name)
		}
	}
	return out, nil
}

func withinDepth(name string, depth int) bool {
	return depth <= 0 || strings.Count(name, "/") < depth
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// NewReader returns a sequential reader over the whole blob.
func NewReader(b Blob) io.Reader {
	return io.NewSectionReader(b, 0, b.Size())
}

// BytesBlob wraps data as a Blob. The slice must not be modified afterwards.
func BytesBlob(data []byte) Blob {
	return &bytesBlob{data: data}
}

type bytesBlob struct {
	data []byte
}

func (b *bytesBlob) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *bytesBlob) Close() error { return nil }

func (b *bytesBlob) Size() int64 { return int64(len(b.data)) }
