package minio

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/cwater/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimRoot(t *testing.T) {
	tests := []struct {
		key, root, want string
	}{
		{"structures/1abc_A.pdb", "structures/", "1abc_A.pdb"},
		{"structures/1abc_A.pdb", "structures", "1abc_A.pdb"},
		{"structures/out/1abc.json", "structures", "out/1abc.json"},
		{"1abc_A.pdb", "", "1abc_A.pdb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trimRoot(tt.key, tt.root), tt.key)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("1abc/1abc_conservedWaters.json"))
	assert.Equal(t, "text/tab-separated-values", contentType("1abc/1abc_clusterPresence.txt"))
	assert.Equal(t, "chemical/x-pdb", contentType("1abc/cwm_1abc_withConservedWaters.pdb"))
	assert.Equal(t, "application/octet-stream", contentType("1abc_A.pdb.gz"))
}

func TestStoreImplementsBlobstore(t *testing.T) {
	var _ blobstore.Store = (*Store)(nil)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-cwater"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("HETATM  301  O   HOH A 301\n")
	require.NoError(t, store.Put(ctx, "1abc_A.pdb", data))

	rc, err := store.Open(ctx, "1abc_A.pdb")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "1abc_A.pdb")

	_, err = store.Open(ctx, "missing.pdb")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
