// Package s3 provides a read-only blobstore.BlobStore backed by Amazon S3.
//
// Index files are fetched whole with the transfer manager's parallel
// ranged downloader, then served from memory:
//
//	store, err := s3.New(ctx, "my-bucket", s3.WithPrefix("indices/"))
//	names, err := store.List(ctx, "")
//
// Credentials and region come from the default AWS configuration chain.
package s3
