// Package s3 provides an Amazon S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("structures/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	res, err := finder.Run(ctx, req, chains, store)
//
// # Features
//
//   - Streaming reads of structure files
//   - CRC32C-checked single puts, multipart uploads above the part size
//   - Automatic pagination for listing
//   - Configurable prefix so several mirrors can share a bucket
package s3
