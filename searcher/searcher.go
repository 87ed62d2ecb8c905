package searcher

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/internal/conv"
	"github.com/hupe1980/crossrank/internal/queue"
	"github.com/hupe1980/crossrank/model"
)

// cancelCheckInterval is how many candidates are scanned between context checks.
const cancelCheckInterval = 1024

// Searcher is a reusable execution context for one top-k scan.
//
// Searcher is NOT thread-safe. It is intended to be owned by a single goroutine
// during a scan.
type Searcher struct {
	// Candidates is a max-heap holding the best k candidates found so far.
	Candidates *queue.PriorityQueue

	// OpsPerformed counts distance computations of the last scan.
	OpsPerformed int
}

var searcherPool = sync.Pool{
	New: func() interface{} {
		return NewSearcher(16)
	},
}

// AcquireSearcher retrieves a Searcher from the pool and prepares it for use.
func AcquireSearcher() *Searcher {
	s := searcherPool.Get().(*Searcher)
	s.OpsPerformed = 0
	return s
}

// ReleaseSearcher resets the Searcher and returns it to the pool.
func ReleaseSearcher(s *Searcher) {
	s.Reset()
	searcherPool.Put(s)
}

// NewSearcher creates a new Searcher whose heap has room for k candidates.
func NewSearcher(k int) *Searcher {
	return &Searcher{
		Candidates: queue.NewMax(k + 1),
	}
}

// Reset clears the searcher state for reuse without freeing memory.
func (s *Searcher) Reset() {
	s.Candidates.Reset()
	s.OpsPerformed = 0
}

// TopK returns the k records of idx closest to query, ascending by distance.
// Records carrying the query's own key are skipped. Among equal distances
// the record that comes first in idx wins.
func (s *Searcher) TopK(ctx context.Context, idx *model.Index, metric distance.Metric, query *model.Record, k int) ([]model.DocumentSimilarity, error) {
	if k < 1 {
		return nil, model.ErrInvalidK
	}

	s.Reset()
	queryKey := query.Key()

	for i := 0; i < idx.Len(); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		candidate := idx.Record(i)
		if candidate.Key() == queryKey {
			continue
		}

		d, err := metric.Distance(query, candidate)
		if err != nil {
			return nil, err
		}
		s.OpsPerformed++

		s.Candidates.PushItemBounded(queue.PriorityQueueItem{
			Node:     conv.MustIntToUint32(i),
			Seq:      uint64(i),
			Distance: d,
		}, k)
	}

	items := s.Candidates.DrainAscending()
	out := make([]model.DocumentSimilarity, len(items))
	for i, item := range items {
		out[i] = model.DocumentSimilarity{
			Distance: item.Distance,
			Source:   queryKey,
			Target:   idx.Record(int(item.Node)).Key(),
			Index:    idx.Name(),
		}
	}
	return out, nil
}

// Options configures Select.
type Options struct {
	// Workers bounds the number of concurrent scans. Defaults to GOMAXPROCS.
	Workers int

	// Comparisons, if set, is increased by the distances computed per scan.
	Comparisons *atomic.Int64
}

// Select computes the top-k list of every query present in idx.
//
// Queries whose key does not occur in idx have no entry in the result.
// Each list is ascending by distance and tagged with idx.Name().
func Select(ctx context.Context, idx *model.Index, metric distance.Metric, queries []model.DocumentKey, k int, optFns ...func(*Options)) (map[model.DocumentKey][]model.DocumentSimilarity, error) {
	if k < 1 {
		return nil, model.ErrInvalidK
	}

	opts := Options{Workers: runtime.GOMAXPROCS(0)}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	type job struct {
		key    model.DocumentKey
		record *model.Record
	}

	seen := make(map[model.DocumentKey]struct{}, len(queries))
	jobs := make([]job, 0, len(queries))
	for _, q := range queries {
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		if rec, ok := idx.Lookup(q); ok {
			jobs = append(jobs, job{key: q, record: rec})
		}
	}

	results := make([][]model.DocumentSimilarity, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, j := range jobs {
		g.Go(func() error {
			s := AcquireSearcher()
			defer ReleaseSearcher(s)

			top, err := s.TopK(gctx, idx, metric, j.record, k)
			if opts.Comparisons != nil {
				opts.Comparisons.Add(int64(s.OpsPerformed))
			}
			if err != nil {
				return err
			}
			results[i] = top
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[model.DocumentKey][]model.DocumentSimilarity, len(jobs))
	for i, j := range jobs {
		out[j.key] = results[i]
	}
	return out, nil
}
