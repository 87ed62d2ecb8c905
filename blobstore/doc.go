// Package blobstore provides read access to the files indices are loaded from.
//
// BlobStore is the interface for listing and opening immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory blobs for tests
//   - s3.Store: Amazon S3 (whole-object parallel download)
//   - minio.Store: MinIO and other S3-compatible storage
//
// Blob names always use forward slashes, relative to the store root.
package blobstore
