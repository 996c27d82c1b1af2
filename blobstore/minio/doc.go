// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// It works against MinIO and any other S3-compatible storage system such as
// Ceph, SeaweedFS or Garage, which makes it the usual choice for shared
// structure mirrors inside a lab network.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "structures", "superimposed/")
//	res, err := finder.Run(ctx, req, cwater.StaticChains(keys), store)
package minio
