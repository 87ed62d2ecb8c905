// Package distance provides the distance measures used for retrieval.
//
// # Supported Measures
//
//   - L1: Manhattan distance (default)
//   - L2: Euclidean distance
//
// # Usage
//
// A metric is configured once per index, since normalization needs the
// per-attribute ranges of that index:
//
//	m, err := distance.New(distance.L1, idx)
//	d, err := m.Distance(idx.Record(0), idx.Record(1))
package distance
