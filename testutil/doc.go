// Package testutil provides testing utilities for crossrank.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for building synthetic indices and computing exact
// top-k reference lists.
//
// # Synthetic Indices
//
//	rng := testutil.NewRNG(seed)
//	idx, _ := rng.RandomIndex("a.arff", 200, 8, "pos", "neg")
//
// # Exact Search (Ground Truth)
//
//	want, _ := testutil.ExactTopK(idx, metric, "pos/d0", k)
package testutil
