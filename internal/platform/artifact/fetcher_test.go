package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devlab/internal/config"
)

type fakeStore struct {
	objects map[string][]byte
	gets    int
	listErr error
}

func (f *fakeStore) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListObjectsV2Output{}
	for key, data := range f.objects {
		if params.Prefix != nil && len(key) >= len(*params.Prefix) && key[:len(*params.Prefix)] == *params.Prefix {
			out.Contents = append(out.Contents, types.Object{
				Key:  aws.String(key),
				Size: aws.Int64(int64(len(data))),
			})
		}
	}
	return out, nil
}

func (f *fakeStore) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gets++
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", aws.ToString(params.Key))
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func artifactCfg() config.ArtifactConfig {
	return config.ArtifactConfig{Bucket: "builds", Prefix: "images", Region: "eu-central-1"}
}

func TestS3Fetcher_DownloadsBuild(t *testing.T) {
	t.Parallel()
	store := &fakeStore{objects: map[string][]byte{
		"images/42/device.img": []byte("image-bytes"),
		"images/42/kernel":     []byte("kernel-bytes"),
		"images/43/device.img": []byte("other-build"),
	}}
	fetcher := NewS3FetcherWithStore(store, artifactCfg(), t.TempDir())

	dir, entries, err := fetcher.Fetch(context.Background(), "42")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"device.img", "kernel"}, entries)
	data, err := os.ReadFile(filepath.Join(dir, "device.img"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestS3Fetcher_CacheHitSkipsDownload(t *testing.T) {
	t.Parallel()
	store := &fakeStore{objects: map[string][]byte{
		"images/42/device.img": []byte("image-bytes"),
	}}
	fetcher := NewS3FetcherWithStore(store, artifactCfg(), t.TempDir())

	_, _, err := fetcher.Fetch(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, 1, store.gets)

	_, _, err = fetcher.Fetch(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets, "second fetch should be served from cache")
}

func TestS3Fetcher_EmptyBuildErrors(t *testing.T) {
	t.Parallel()
	fetcher := NewS3FetcherWithStore(&fakeStore{objects: map[string][]byte{}}, artifactCfg(), t.TempDir())

	_, _, err := fetcher.Fetch(context.Background(), "missing")
	assert.ErrorContains(t, err, "no artifacts")
}

func TestS3Fetcher_ListErrorPropagates(t *testing.T) {
	t.Parallel()
	fetcher := NewS3FetcherWithStore(&fakeStore{listErr: assert.AnError}, artifactCfg(), t.TempDir())

	_, _, err := fetcher.Fetch(context.Background(), "42")
	assert.ErrorIs(t, err, assert.AnError)
}
