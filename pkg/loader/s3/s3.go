package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OFFIS-RIT/kgraph/pkg/loader"
)

// Scheme prefixes object paths that carry their own bucket.
const Scheme = "s3://"

// S3GraphFileLoader loads document contents from an S3 bucket.
//
// A FilePath of the form s3://bucket/key selects the bucket explicitly;
// any other path is used as a key in the default bucket.
type S3GraphFileLoader struct {
	bucket string
	client *s3.Client
	cache  *loader.Cache
}

// NewS3GraphFileLoaderWithClient creates a new S3GraphFileLoader using an
// existing s3.Client.
func NewS3GraphFileLoaderWithClient(bucket string, client *s3.Client) *S3GraphFileLoader {
	return &S3GraphFileLoader{
		bucket: bucket,
		client: client,
		cache:  loader.NewCache(),
	}
}

// NewS3GraphFileLoaderParams defines the configuration parameters for
// creating a new S3GraphFileLoader.
//
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO).
type NewS3GraphFileLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3GraphFileLoader creates a new S3GraphFileLoader with static
// credentials and the given endpoint/region.
func NewS3GraphFileLoader(ctx context.Context, params NewS3GraphFileLoaderParams) (*S3GraphFileLoader, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}
	if params.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = params.Endpoint != ""
	})

	return NewS3GraphFileLoaderWithClient(params.Bucket, client), nil
}

// SplitPath returns the bucket and key of an object path. Paths without
// the s3:// scheme resolve to the default bucket.
func SplitPath(path, defaultBucket string) (string, string, error) {
	if !strings.HasPrefix(path, Scheme) {
		return defaultBucket, strings.TrimPrefix(path, "/"), nil
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(path, Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid object path %q", path)
	}
	return bucket, key, nil
}

// GetFileText retrieves the contents of the given DocumentFile from S3.
func (l *S3GraphFileLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		bucket, key, err := SplitPath(file.FilePath, l.bucket)
		if err != nil {
			return nil, err
		}
		if bucket == "" {
			return nil, fmt.Errorf("no bucket for %q", file.FilePath)
		}

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	})
}
