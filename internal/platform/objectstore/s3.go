package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

// s3Store serves AWS S3 and S3-compatible stores such as MinIO.
type s3Store struct {
	log      *logger.Logger
	client   *s3.Client
	bucket   BucketConfig
	endpoint string
	region   string
}

func newS3Store(ctx context.Context, log *logger.Logger, storageCfg ObjectStorageConfig, bucket BucketConfig) (*s3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(storageCfg.S3Region),
	}
	if storageCfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(storageCfg.S3AccessKeyID, storageCfg.S3SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(storageCfg.S3Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = storageCfg.S3UsePathStyle
	})

	return &s3Store{
		log:      log,
		client:   client,
		bucket:   bucket,
		endpoint: endpoint,
		region:   storageCfg.S3Region,
	}, nil
}

func (s *s3Store) UploadFile(ctx context.Context, key string, body io.Reader, _ int64) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	// the SDK signs the payload, which needs a seekable body
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read upload body: %w", err)
		}
		rs = bytes.NewReader(buf)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket.Name),
		Key:         aws.String(key),
		Body:        rs,
		ContentType: aws.String(ContentTypeForKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object %q: %w", key, err)
	}
	return nil
}

func (s *s3Store) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete S3 object %q in bucket %q: %w", key, s.bucket.Name, err)
	}
	return nil
}

func (s *s3Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	out := []string{}
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket.Name),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			out = append(out, aws.ToString(obj.Key))
		}
	}
	return out, nil
}

const s3DeleteBatch = 1000

func (s *s3Store) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.ListKeys(ctx, prefix)
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += s3DeleteBatch {
		end := start + s3DeleteBatch
		if end > len(keys) {
			end = len(keys)
		}
		ids := make([]s3types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, s3types.ObjectIdentifier{Key: aws.String(k)})
		}
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket.Name),
			Delete: &s3types.Delete{Objects: ids},
		})
		if err != nil {
			return fmt.Errorf("failed to delete S3 prefix %q: %w", prefix, err)
		}
	}
	return nil
}

func (s *s3Store) GetPublicURL(key string) string {
	base := s.endpoint
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", s.region)
	}
	return publicURL(s.bucket, base, key)
}
