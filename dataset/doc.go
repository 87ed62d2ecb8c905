// Package dataset turns index files in a blob store into model.Index values.
//
// Resolve expands user supplied patterns against a store listing; Loader
// opens, decompresses and parses one file at a time. Supported files are
// plain ARFF plus gzip, zstd and lz4 compressed ARFF.
package dataset
