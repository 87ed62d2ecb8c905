package crossrank

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/crossrank/aggregate"
	"github.com/hupe1980/crossrank/blobstore"
	"github.com/hupe1980/crossrank/dataset"
	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/internal/resource"
	"github.com/hupe1980/crossrank/model"
	"github.com/hupe1980/crossrank/searcher"
)

// Engine retrieves the nearest documents of every query in every index and
// ranks them across indices. An Engine is immutable and safe for concurrent
// use; each Run is independent.
type Engine struct {
	opts       options
	controller *resource.Controller
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	if o.k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, o.k)
	}
	if err := o.measure.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts:       o,
		controller: resource.NewController(o.resourceConfig()),
	}, nil
}

// K returns the number of neighbors retrieved per index and query.
func (e *Engine) K() int { return e.opts.k }

// Measure returns the configured distance measure.
func (e *Engine) Measure() distance.Measure { return e.opts.measure }

// Workers returns the concurrency bound.
func (e *Engine) Workers() int { return e.opts.workers }

// MemoryUsage returns the bytes currently accounted for loaded indices.
func (e *Engine) MemoryUsage() int64 { return e.controller.MemoryUsage() }

// LoadIndices resolves patterns against store and loads every matching index
// file in parallel. The result follows the resolved order. Any failure
// releases what was loaded and fails the whole call.
func (e *Engine) LoadIndices(ctx context.Context, store blobstore.BlobStore, patterns []string) ([]*model.Index, error) {
	names, err := dataset.Resolve(ctx, store, patterns)
	if err != nil {
		return nil, err
	}

	loader := dataset.NewLoader(store, func(o *dataset.LoaderOptions) {
		o.Controller = e.controller
		o.Logger = e.opts.logger.Logger
	})

	indices := make([]*model.Index, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.workers)

	for i, name := range names {
		g.Go(func() error {
			start := time.Now()
			idx, stats, err := loader.Load(gctx, name)
			e.opts.metricsCollector.RecordLoad(stats.Records, stats.BlobBytes, time.Since(start), err)
			e.opts.logger.LogLoad(gctx, name, stats.Records, stats.BlobBytes, time.Since(start), err)
			if err != nil {
				return indexError(stats.Name, err)
			}
			indices[i] = idx
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.Release(indices...)
		return nil, err
	}
	return indices, nil
}

// Release returns the memory accounted for indices loaded by LoadIndices.
func (e *Engine) Release(indices ...*model.Index) {
	for _, idx := range indices {
		if idx != nil {
			e.controller.ReleaseMemory(idx.SizeBytes())
		}
	}
}

// Run searches every index for every query and aggregates per query.
//
// Selection runs per index in parallel; aggregation starts only after every
// index finished. Results come back in the order of the first occurrence of
// each query. Queries found in no index are logged and produce no result.
// Any error aborts the run and no partial results are returned.
func (e *Engine) Run(ctx context.Context, indices []*model.Index, queries []model.DocumentKey) ([]*aggregate.Result, error) {
	start := time.Now()
	logger := e.opts.logger.WithK(e.opts.k)

	results, err := e.run(ctx, logger, indices, queries)
	logger.LogRun(ctx, len(indices), len(queries), len(results), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) run(ctx context.Context, logger *Logger, indices []*model.Index, queries []model.DocumentKey) ([]*aggregate.Result, error) {
	if len(indices) == 0 {
		return nil, ErrNoIndices
	}
	queries = uniqueQueries(queries)
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	perIndex, err := e.selectAll(ctx, logger, indices, queries)
	if err != nil {
		return nil, err
	}

	return e.aggregateAll(ctx, logger, perIndex, queries)
}

func (e *Engine) selectAll(ctx context.Context, logger *Logger, indices []*model.Index, queries []model.DocumentKey) ([]map[model.DocumentKey][]model.DocumentSimilarity, error) {
	perIndex := make([]map[model.DocumentKey][]model.DocumentSimilarity, len(indices))

	scanWorkers := max(1, e.opts.workers/len(indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.workers)

	for i, idx := range indices {
		g.Go(func() error {
			start := time.Now()

			metric, err := distance.New(e.opts.measure, idx,
				distance.WithNormalization(e.opts.normalize),
				distance.WithClassAttribute(e.opts.classFeature),
			)
			if err != nil {
				return indexError(idx.Name(), err)
			}

			var comparisons atomic.Int64
			sims, err := searcher.Select(gctx, idx, metric, queries, e.opts.k, func(o *searcher.Options) {
				o.Workers = scanWorkers
				o.Comparisons = &comparisons
			})
			e.opts.metricsCollector.RecordSelect(len(sims), e.opts.k, time.Since(start), err)
			logger.LogSelect(gctx, idx.Name(), len(sims), comparisons.Load(), time.Since(start), err)
			if err != nil {
				return indexError(idx.Name(), err)
			}

			perIndex[i] = sims
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perIndex, nil
}

func (e *Engine) aggregateAll(ctx context.Context, logger *Logger, perIndex []map[model.DocumentKey][]model.DocumentSimilarity, queries []model.DocumentKey) ([]*aggregate.Result, error) {
	results := make([]*aggregate.Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.workers)

	for qi, q := range queries {
		var lists [][]model.DocumentSimilarity
		for _, sims := range perIndex {
			if list, ok := sims[q]; ok {
				lists = append(lists, list)
			}
		}
		if len(lists) == 0 {
			logger.WithQuery(q).WarnContext(ctx, "query document not found in any index")
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			r, err := aggregate.Aggregate(q, lists)

			candidates := 0
			if r != nil {
				candidates = len(r.Statistics)
			}
			e.opts.metricsCollector.RecordAggregate(candidates, time.Since(start), err)
			logger.LogAggregate(gctx, q, candidates, err)
			if err != nil {
				return fmt.Errorf("query %q: %w", q, err)
			}

			results[qi] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func uniqueQueries(queries []model.DocumentKey) []model.DocumentKey {
	seen := make(map[model.DocumentKey]struct{}, len(queries))
	out := make([]model.DocumentKey, 0, len(queries))
	for _, q := range queries {
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
