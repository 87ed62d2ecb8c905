package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"

	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// Schema returns a schema of dims numeric features "f0".."fN" followed by
// a nominal "class" attribute over classes and a string "document" attribute.
func Schema(dims int, classes []string) model.Schema {
	s := model.Schema{Relation: "synthetic"}
	for i := range dims {
		s.Attributes = append(s.Attributes, model.Attribute{Name: "f" + strconv.Itoa(i), Type: model.Numeric})
	}
	s.Attributes = append(s.Attributes,
		model.Attribute{Name: "class", Type: model.Nominal, Values: classes},
		model.Attribute{Name: "document", Type: model.String},
	)
	return s
}

// Doc describes one synthetic document.
type Doc struct {
	Class    string
	Document string
	Features []float64
}

// NewIndex builds an index over docs using Schema. Every doc must have the
// same number of features; classes are collected in first-seen order.
func NewIndex(name string, docs ...Doc) (*model.Index, error) {
	dims := 0
	if len(docs) > 0 {
		dims = len(docs[0].Features)
	}

	var classes []string
	seen := map[string]int{}
	for _, d := range docs {
		if _, ok := seen[d.Class]; !ok {
			seen[d.Class] = len(classes)
			classes = append(classes, d.Class)
		}
	}

	schema := Schema(dims, classes)
	records := make([]model.Record, 0, len(docs))
	for _, d := range docs {
		if len(d.Features) != dims {
			return nil, fmt.Errorf("doc %s has %d features, want %d", d.Document, len(d.Features), dims)
		}
		values := make([]float64, 0, dims+2)
		tokens := make([]string, 0, dims+2)
		for _, f := range d.Features {
			values = append(values, f)
			tokens = append(tokens, strconv.FormatFloat(f, 'g', -1, 64))
		}
		values = append(values, float64(seen[d.Class]), model.Missing)
		tokens = append(tokens, d.Class, d.Document)
		records = append(records, model.NewRecord(values, tokens))
	}

	return model.NewIndex(name, schema, records)
}

// RandomIndex builds an index of n documents with uniform features.
// Documents are named "d0".."dN" and assigned to classes round-robin.
func (r *RNG) RandomIndex(name string, n, dims int, classes ...string) (*model.Index, error) {
	if len(classes) == 0 {
		classes = []string{"c"}
	}
	vectors := r.UniformVectors(n, dims)
	docs := make([]Doc, n)
	for i := range docs {
		docs[i] = Doc{
			Class:    classes[i%len(classes)],
			Document: "d" + strconv.Itoa(i),
			Features: vectors[i],
		}
	}
	return NewIndex(name, docs...)
}

// ExactTopK computes the reference top-k list by scoring every candidate
// and stable-sorting the whole list.
func ExactTopK(idx *model.Index, metric distance.Metric, query model.DocumentKey, k int) ([]model.DocumentSimilarity, error) {
	q, ok := idx.Lookup(query)
	if !ok {
		return nil, nil
	}

	var all []model.DocumentSimilarity
	for i := 0; i < idx.Len(); i++ {
		c := idx.Record(i)
		if c.Key() == query {
			continue
		}
		d, err := metric.Distance(q, c)
		if err != nil {
			return nil, err
		}
		all = append(all, model.DocumentSimilarity{Distance: d, Source: query, Target: c.Key(), Index: idx.Name()})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })
	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}
