package aggregate

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/crossrank/internal/conv"
	"github.com/hupe1980/crossrank/model"
)

// Entry pairs a candidate document with its statistics.
type Entry struct {
	Document   model.DocumentKey
	Statistics *DocumentStatistics
}

// Result is the cross-index view of one query.
type Result struct {
	// Query is the query document.
	Query model.DocumentKey

	// Ranking holds every per-index hit, stable-sorted by ascending distance.
	Ranking []model.DocumentSimilarity

	// Statistics maps each candidate document to its aggregate.
	Statistics map[model.DocumentKey]*DocumentStatistics

	sources map[model.DocumentKey]*roaring.Bitmap
	indices []string
}

// Aggregate merges the per-index top-k lists of one query.
//
// perIndex must be in the caller's fixed index order; each list must be
// ascending by distance. Within a list a document's rank is its 1-based
// position. A document is counted at most once per index, at its first
// (best) position, so its occurrence count equals the number of distinct
// indices that returned it.
//
// Aggregate keeps no state between calls.
func Aggregate(query model.DocumentKey, perIndex [][]model.DocumentSimilarity) (*Result, error) {
	total := 0
	for _, sims := range perIndex {
		total += len(sims)
	}

	r := &Result{
		Query:      query,
		Ranking:    make([]model.DocumentSimilarity, 0, total),
		Statistics: make(map[model.DocumentKey]*DocumentStatistics),
		sources:    make(map[model.DocumentKey]*roaring.Bitmap),
		indices:    make([]string, len(perIndex)),
	}

	for ordinal, sims := range perIndex {
		r.Ranking = append(r.Ranking, sims...)

		for pos, sim := range sims {
			if pos == 0 {
				r.indices[ordinal] = sim.Index
			}

			seen, ok := r.sources[sim.Target]
			if !ok {
				seen = roaring.New()
				r.sources[sim.Target] = seen
			}
			if !seen.CheckedAdd(conv.MustIntToUint32(ordinal)) {
				continue
			}

			stats, ok := r.Statistics[sim.Target]
			if !ok {
				stats = &DocumentStatistics{}
				r.Statistics[sim.Target] = stats
			}
			if err := stats.AddObservation(pos+1, sim.Distance); err != nil {
				return nil, err
			}
		}
	}

	slices.SortStableFunc(r.Ranking, model.CompareSimilarity)

	return r, nil
}

// Ranked returns the statistics in display order (see Compare), with ties
// broken by document key. It finalizes every statistics record.
func (r *Result) Ranked() []Entry {
	entries := make([]Entry, 0, len(r.Statistics))
	for doc, stats := range r.Statistics {
		entries = append(entries, Entry{Document: doc, Statistics: stats})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := Compare(a.Statistics, b.Statistics); c != 0 {
			return c
		}
		return cmp.Compare(a.Document, b.Document)
	})
	return entries
}

// IndicesOf returns the names of the indices whose top-k contained doc,
// in index order.
func (r *Result) IndicesOf(doc model.DocumentKey) []string {
	seen, ok := r.sources[doc]
	if !ok {
		return nil
	}
	names := make([]string, 0, seen.GetCardinality())
	it := seen.Iterator()
	for it.HasNext() {
		names = append(names, r.indices[it.Next()])
	}
	return names
}
