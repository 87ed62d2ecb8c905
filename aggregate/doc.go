// Package aggregate merges the per-index top-k lists of a query into a
// global similarity ranking and per-document statistics.
//
// The statistics order documents seen in more indices first, then those
// ranked better on average, then those closer on average.
package aggregate
