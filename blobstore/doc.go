// Package blobstore provides the storage abstraction that structure files are
// read from and result files are written to.
//
// Store is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory, reads are memory mapped on unix
//   - MemoryStore: in-process map, used by tests and embedding callers
//   - minio.Store: MinIO and other S3-compatible endpoints
//   - s3.Store: Amazon S3 with multipart uploads
//
// # Custom Implementations
//
// Implement the Store interface to support other backends:
//
//	type Store interface {
//	    Open(ctx, name) (io.ReadCloser, error)
//	    Put(ctx, name, data) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Names always use forward slashes, for example "1abc/1abc_clusterPresence.txt".
package blobstore
