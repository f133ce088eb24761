package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type Category string

const CategoryCourses Category = "courses"

// Store is the bucket surface the service needs. Implementations are safe for
// concurrent use.
type Store interface {
	UploadFile(ctx context.Context, key string, body io.Reader, size int64) error
	DeleteFile(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	DeletePrefix(ctx context.Context, prefix string) error
	GetPublicURL(key string) string
}

type BucketConfig struct {
	Name          string
	CDNDomain     string
	PublicBaseURL string
}

// Key joins a category, an owner id and a relative path into an object key.
func Key(category Category, id string, rel ...string) string {
	parts := append([]string{string(category), id}, rel...)
	return strings.TrimLeft(path.Join(parts...), "/")
}

func NewStore(ctx context.Context, log *logger.Logger, storageCfg ObjectStorageConfig, bucket BucketConfig) (Store, error) {
	if err := ValidateObjectStorageConfig(storageCfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if strings.TrimSpace(bucket.Name) == "" {
		return nil, fmt.Errorf("missing env var COURSE_BUCKET_NAME")
	}
	if raw := strings.TrimSpace(bucket.PublicBaseURL); raw != "" && !isAbsoluteURL(raw) {
		return nil, fmt.Errorf(
			"invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443",
			raw,
		)
	}

	storeLog := log.With("service", "ObjectStore")
	storeLog.Info(
		"Object storage initialized",
		"mode", storageCfg.Mode,
		"mode_source", storageCfg.ModeSource(),
		"emulator_host", storageCfg.EmulatorHost,
		"s3_endpoint", storageCfg.S3Endpoint,
		"bucket", bucket.Name,
	)

	switch storageCfg.Mode {
	case ObjectStorageModeS3:
		return newS3Store(ctx, storeLog, storageCfg, bucket)
	default:
		return newGCSStore(ctx, storeLog, storageCfg, bucket)
	}
}

func publicURL(bucket BucketConfig, fallbackBase, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bucket.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", bucket.CDNDomain, key)
	}
	base := strings.TrimRight(strings.TrimSpace(bucket.PublicBaseURL), "/")
	if base == "" {
		base = strings.TrimRight(strings.TrimSpace(fallbackBase), "/")
	}
	return fmt.Sprintf("%s/%s/%s", base, url.PathEscape(bucket.Name), key)
}
