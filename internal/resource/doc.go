// Package resource bounds the resources a run may use: concurrent workers,
// memory held by loaded indices, and read throughput from blob stores.
//
// A nil *Controller is valid and imposes no limits.
package resource
