package model

import (
	"cmp"
	"fmt"
)

// DocumentSimilarity is the distance from a query document to a candidate
// document as observed in one index.
type DocumentSimilarity struct {
	Distance float64
	Source   DocumentKey
	Target   DocumentKey
	Index    string
}

// String returns a compact representation.
func (s DocumentSimilarity) String() string {
	return fmt.Sprintf("%s->%s(%.3f@%s)", s.Source, s.Target, s.Distance, s.Index)
}

// CompareSimilarity orders by distance ascending. Equal distances compare
// equal; use a stable sort to keep discovery order.
func CompareSimilarity(a, b DocumentSimilarity) int {
	return cmp.Compare(a.Distance, b.Distance)
}
