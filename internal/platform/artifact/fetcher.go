package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/imamik/devlab/internal/config"
)

// ObjectStore is the slice of the S3 API the fetcher needs.
type ObjectStore interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher downloads build artifacts from object storage into a local cache
// directory. Objects already cached with a matching size are not downloaded
// again.
type S3Fetcher struct {
	store    ObjectStore
	bucket   string
	prefix   string
	cacheDir string
}

// NewS3Fetcher builds a fetcher using the default AWS credential chain.
func NewS3Fetcher(ctx context.Context, cfg config.ArtifactConfig, cacheDir string) (*S3Fetcher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3FetcherWithStore(s3.NewFromConfig(awsCfg), cfg, cacheDir), nil
}

// NewS3FetcherWithStore wires an existing object store, useful for testing.
func NewS3FetcherWithStore(store ObjectStore, cfg config.ArtifactConfig, cacheDir string) *S3Fetcher {
	return &S3Fetcher{
		store:    store,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		cacheDir: cacheDir,
	}
}

// Fetch downloads every object under the build's prefix and returns the
// cache directory plus the artifact file names.
func (f *S3Fetcher) Fetch(ctx context.Context, buildID string) (string, []string, error) {
	keyPrefix := path.Join(f.prefix, buildID) + "/"
	dir := filepath.Join(f.cacheDir, buildID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}

	var entries []string
	paginator := s3.NewListObjectsV2Paginator(f.store, &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(keyPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("failed to list build %s in bucket %s: %w", buildID, f.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || *obj.Key == keyPrefix {
				continue
			}
			name := path.Base(*obj.Key)
			if err := f.download(ctx, *obj.Key, filepath.Join(dir, name), aws.ToInt64(obj.Size)); err != nil {
				return "", nil, err
			}
			entries = append(entries, name)
		}
	}

	if len(entries) == 0 {
		return "", nil, fmt.Errorf("build %s has no artifacts under s3://%s/%s", buildID, f.bucket, keyPrefix)
	}
	return dir, entries, nil
}

func (f *S3Fetcher) download(ctx context.Context, key, dest string, size int64) error {
	if info, err := os.Stat(dest); err == nil && info.Size() == size {
		return nil // cache hit
	}

	result, err := f.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, f.bucket, err)
	}
	defer func() { _ = result.Body.Close() }()

	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, result.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	return os.Rename(tmp, dest)
}
