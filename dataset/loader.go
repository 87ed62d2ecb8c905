package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/hupe1980/crossrank/arff"
	"github.com/hupe1980/crossrank/blobstore"
	"github.com/hupe1980/crossrank/internal/resource"
	"github.com/hupe1980/crossrank/model"
)

// LoadStats describes one completed load.
type LoadStats struct {
	Name        string
	Compression Compression
	BlobBytes   int64
	Records     int
	IndexBytes  int64
	Duration    time.Duration
}

// Loader reads index files from a blob store.
type Loader struct {
	store      blobstore.BlobStore
	controller *resource.Controller
	logger     *slog.Logger
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Controller throttles reads and accounts index memory. Nil means unlimited.
	Controller *resource.Controller
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// NewLoader creates a Loader for store.
func NewLoader(store blobstore.BlobStore, optFns ...func(*LoaderOptions)) *Loader {
	opts := LoaderOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		store:      store,
		controller: opts.Controller,
		logger:     logger,
	}
}

// Load parses the named file into an index named by the file's base name.
// The index memory stays accounted with the controller until the caller
// releases idx.SizeBytes().
func (l *Loader) Load(ctx context.Context, name string) (*model.Index, LoadStats, error) {
	start := time.Now()
	stats := LoadStats{Name: path.Base(name)}

	c, ok := DetectCompression(name)
	if !ok {
		return nil, stats, fmt.Errorf("%w: %s: unrecognized index file extension", model.ErrConfiguration, name)
	}
	stats.Compression = c

	if err := l.controller.AcquireWorker(ctx); err != nil {
		return nil, stats, err
	}
	defer l.controller.ReleaseWorker()

	blob, err := l.store.Open(ctx, name)
	if err != nil {
		return nil, stats, fmt.Errorf("open %s: %w", name, err)
	}
	defer blob.Close()
	stats.BlobBytes = blob.Size()

	l.logger.DebugContext(ctx, "loading index",
		"file", name,
		"bytes", stats.BlobBytes,
		"compression", c.String(),
	)

	rc, err := Decompress(c, l.controller.Reader(ctx, blobstore.NewReader(blob)))
	if err != nil {
		return nil, stats, fmt.Errorf("decompress %s: %w", name, err)
	}
	defer rc.Close()

	ds, err := arff.Parse(rc)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", name, err)
	}

	idx, err := model.NewIndex(stats.Name, ds.Schema, ds.Records)
	if err != nil {
		return nil, stats, err
	}

	stats.Records = idx.Len()
	stats.IndexBytes = idx.SizeBytes()
	if err := l.controller.AcquireMemory(stats.IndexBytes); err != nil {
		return nil, stats, &model.IndexError{Index: stats.Name, Err: err}
	}
	stats.Duration = time.Since(start)

	return idx, stats, nil
}
