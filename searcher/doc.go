// Package searcher selects, per index and query document, the k nearest
// other documents of that index.
//
// A Searcher owns the bounded max-heap used for one scan. Searchers are
// pooled and never shared between goroutines; Select fans queries out over
// a bounded worker group, reading the index and metric concurrently without
// locks since neither is mutated during retrieval.
package searcher
