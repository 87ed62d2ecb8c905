package dataset

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crossrank/arff"
	"github.com/hupe1980/crossrank/blobstore"
	"github.com/hupe1980/crossrank/internal/resource"
	"github.com/hupe1980/crossrank/model"
)

const corpus = `@relation corpus
@attribute f0 numeric
@attribute f1 numeric
@attribute class {a,b}
@attribute document string
@data
0,0,a,q
1,0,a,x
0,1,b,y
`

func compress(t *testing.T, c Compression, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionNone:
		return data
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = zw
	case CompressionLZ4:
		w = lz4.NewWriter(&buf)
	}
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		name string
		want Compression
		ok   bool
	}{
		{"a.arff", CompressionNone, true},
		{"dir/A.ARFF", CompressionNone, true},
		{"a.arff.gz", CompressionGzip, true},
		{"a.arff.zst", CompressionZstd, true},
		{"a.arff.lz4", CompressionLZ4, true},
		{"a.csv", CompressionNone, false},
		{"a.gz", CompressionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := DetectCompression(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestDecompress(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			rc, err := Decompress(c, bytes.NewReader(compress(t, c, []byte(corpus))))
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, corpus, string(got))
		})
	}
}

func TestSplitPatterns(t *testing.T) {
	got := SplitPatterns([]string{" a.arff, ,b.arff", "", "c/*.arff"})
	assert.Equal(t, []string{"a.arff", "b.arff", "c/*.arff"}, got)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"*.arff", "a.arff", true},
		{"*.arff", "d/a.arff", false},
		{"d/*.arff", "d/a.arff", true},
		{"**/*.arff", "a.arff", true},
		{"**/*.arff", "d/e/a.arff", true},
		{"d/**", "d/e/a.arff", true},
		{"d/**/a.arff", "d/a.arff", true},
		{"d/**/a.arff", "x/a.arff", false},
		{"news-[0-9].arff", "news-3.arff", true},
		{"?.arff", "ab.arff", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.pattern, tt.name), "%s ~ %s", tt.pattern, tt.name)
	}
}

func newStore(t *testing.T, files map[string][]byte) *blobstore.MemoryStore {
	t.Helper()
	store := blobstore.NewMemoryStore()
	for name, data := range files {
		require.NoError(t, store.Put(context.Background(), name, data))
	}
	return store
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, map[string][]byte{
		"b.arff":              nil,
		"a.arff.gz":           nil,
		"notes.txt":           nil,
		"sub/c.arff":          nil,
		"sub/deep/d.ar":       nil,
		"sub/deep/e.arff.lz4": nil,
	})

	t.Run("DefaultRoot", func(t *testing.T) {
		got, err := Resolve(ctx, store, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.arff.gz", "b.arff"}, got)
	})

	t.Run("OrderAndDedup", func(t *testing.T) {
		got, err := Resolve(ctx, store, []string{"sub/c.arff,b.arff", "**/*"})
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/c.arff", "b.arff", "a.arff.gz", "sub/deep/e.arff.lz4"}, got)
	})

	t.Run("CleanedPattern", func(t *testing.T) {
		got, err := Resolve(ctx, store, []string{"./sub/*.arff"})
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/c.arff"}, got)
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := Resolve(ctx, store, []string{"missing/*.arff"})
		assert.ErrorIs(t, err, ErrNoIndices)
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})

	t.Run("BadPattern", func(t *testing.T) {
		_, err := Resolve(ctx, store, []string{"[.arff"})
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})

	t.Run("EmptyStore", func(t *testing.T) {
		_, err := Resolve(ctx, blobstore.NewMemoryStore(), nil)
		assert.ErrorIs(t, err, ErrNoIndices)
	})
}

// depthRecorder records the depth of every bounded listing.
type depthRecorder struct {
	*blobstore.MemoryStore
	depths []int
}

func (d *depthRecorder) ListDepth(ctx context.Context, prefix string, depth int) ([]string, error) {
	d.depths = append(d.depths, depth)
	return d.MemoryStore.ListDepth(ctx, prefix, depth)
}

func TestResolve_ListingDepth(t *testing.T) {
	ctx := context.Background()
	store := &depthRecorder{MemoryStore: newStore(t, map[string][]byte{
		"a.arff":       nil,
		"d/b.arff":     nil,
		"d/e/c.arff":   nil,
		"d/e/f/g.arff": nil,
	})}

	tests := []struct {
		patterns []string
		depth    int
		want     []string
	}{
		{nil, 1, []string{"a.arff"}},
		{[]string{"*.arff"}, 1, []string{"a.arff"}},
		{[]string{"d/*.arff,./d/e/*.arff"}, 3, []string{"d/b.arff", "d/e/c.arff"}},
		{[]string{"*.arff", "**/g.arff"}, 0, []string{"a.arff", "d/e/f/g.arff"}},
	}
	for _, tt := range tests {
		store.depths = nil
		got, err := Resolve(ctx, store, tt.patterns)
		require.NoError(t, err, "%v", tt.patterns)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, []int{tt.depth}, store.depths, "%v", tt.patterns)
	}
}

func TestLoader(t *testing.T) {
	ctx := context.Background()
	files := map[string][]byte{}
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4} {
		name := "dir/corpus.arff"
		switch c {
		case CompressionGzip:
			name += ".gz"
		case CompressionZstd:
			name += ".zst"
		case CompressionLZ4:
			name += ".lz4"
		}
		files[name] = compress(t, c, []byte(corpus))
	}
	files["broken.arff"] = []byte("@attribute f0 numeric\n@data\nx\n")
	files["noclass.arff"] = []byte("@attribute f0 numeric\n@attribute document string\n@data\n1,d\n")
	store := newStore(t, files)

	t.Run("Formats", func(t *testing.T) {
		loader := NewLoader(store)
		for name := range files {
			if name == "broken.arff" || name == "noclass.arff" {
				continue
			}
			idx, stats, err := loader.Load(ctx, name)
			require.NoError(t, err, name)
			assert.Equal(t, 3, idx.Len())
			assert.Equal(t, stats.Name, idx.Name())
			assert.Equal(t, 3, stats.Records)
			assert.Equal(t, int64(len(files[name])), stats.BlobBytes)

			_, ok := idx.Lookup("b/y")
			assert.True(t, ok)
		}
	})

	t.Run("NamedByBase", func(t *testing.T) {
		idx, _, err := NewLoader(store).Load(ctx, "dir/corpus.arff.gz")
		require.NoError(t, err)
		assert.Equal(t, "corpus.arff.gz", idx.Name())
	})

	t.Run("MemoryAccounting", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{})
		loader := NewLoader(store, func(o *LoaderOptions) { o.Controller = ctrl })

		idx, stats, err := loader.Load(ctx, "dir/corpus.arff")
		require.NoError(t, err)
		assert.Equal(t, stats.IndexBytes, ctrl.MemoryUsage())

		ctrl.ReleaseMemory(idx.SizeBytes())
		assert.Zero(t, ctrl.MemoryUsage())
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 1})
		loader := NewLoader(store, func(o *LoaderOptions) { o.Controller = ctrl })

		_, _, err := loader.Load(ctx, "dir/corpus.arff")
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	})

	t.Run("WorkerSlots", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{MaxWorkers: 1})
		loader := NewLoader(store, func(o *LoaderOptions) { o.Controller = ctrl })

		require.NoError(t, ctrl.AcquireWorker(ctx))
		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, _, err := loader.Load(cctx, "dir/corpus.arff")
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		ctrl.ReleaseWorker()
		idx, _, err := loader.Load(ctx, "dir/corpus.arff")
		require.NoError(t, err)
		ctrl.ReleaseMemory(idx.SizeBytes())

		// The load gave its slot back.
		require.NoError(t, ctrl.AcquireWorker(ctx))
		ctrl.ReleaseWorker()
	})

	t.Run("ParseError", func(t *testing.T) {
		_, _, err := NewLoader(store).Load(ctx, "broken.arff")
		assert.ErrorIs(t, err, arff.ErrSyntax)
	})

	t.Run("MissingAttribute", func(t *testing.T) {
		_, _, err := NewLoader(store).Load(ctx, "noclass.arff")
		assert.ErrorIs(t, err, model.ErrNoClassAttribute)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, _, err := NewLoader(store).Load(ctx, "nope.arff")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		_, _, err := NewLoader(store).Load(ctx, "nope.csv")
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})
}
