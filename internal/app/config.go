package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/yungbote/cmi5-backend/internal/data/db"
	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/envutil"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/platform/objectstore"
	"github.com/yungbote/cmi5-backend/internal/realtime/bus"
	"github.com/yungbote/cmi5-backend/internal/services"
)

const defaultPackageMaxBytes int64 = 512 << 20

type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	DB db.Config

	Storage objectstore.ObjectStorageConfig
	Bucket  objectstore.BucketConfig
	Package services.PackageConfig

	OrganizationID uuid.UUID

	// Redis is used only when Addr is set; otherwise events are dropped.
	Redis bus.RedisConfig

	MetricsEnabled bool
	// MetricsAddr starts a dedicated listener. Empty serves /metrics on the API router.
	MetricsAddr string

	Otel observability.OtelConfig

	CORSOrigins []string
}

// LoadDotEnv reads an optional .env from the working directory. A missing
// file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func LoadConfig(log *logger.Logger) (Config, error) {
	storageCfg, err := objectstore.ResolveObjectStorageConfigFromEnv()
	if err != nil {
		// resolveStore classifies the bad mode again so bootstrap fails with a coded error.
		log.Warn("Object storage config invalid", "error", err)
		if storageCfg.Mode == "" {
			storageCfg.Mode = objectstore.ObjectStorageMode(envutil.String("OBJECT_STORAGE_MODE", ""))
		}
	}

	orgID := services.DefaultOrganizationID
	if raw := envutil.String("CMI_ORGANIZATION_ID", ""); raw != "" {
		parsed, perr := uuid.Parse(raw)
		if perr != nil {
			return Config{}, fmt.Errorf("invalid CMI_ORGANIZATION_ID=%q: %w", raw, perr)
		}
		orgID = parsed
	}

	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		DB: db.Config{
			Driver:        envutil.String("DATABASE_DRIVER", db.DriverPostgres),
			Host:          envutil.String("POSTGRES_HOST", "localhost"),
			Port:          envutil.String("POSTGRES_PORT", "5432"),
			User:          envutil.String("POSTGRES_USER", "postgres"),
			Password:      envutil.String("POSTGRES_PASSWORD", ""),
			Name:          envutil.String("POSTGRES_NAME", "cmi5"),
			SSLMode:       envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:    envutil.String("SQLITE_PATH", ""),
			SlowThreshold: envutil.Duration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		},
		Storage: storageCfg,
		Bucket: objectstore.BucketConfig{
			Name:          envutil.String("COURSE_BUCKET_NAME", ""),
			CDNDomain:     envutil.String("COURSE_CDN_DOMAIN", ""),
			PublicBaseURL: envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""),
		},
		Package: services.PackageConfig{
			MaxBytes:    envutil.Int64("PACKAGE_MAX_BYTES", defaultPackageMaxBytes),
			Concurrency: envutil.Int("PACKAGE_UPLOAD_CONCURRENCY", 8),
		},
		OrganizationID: orgID,
		Redis: bus.RedisConfig{
			Addr:    envutil.String("REDIS_ADDR", ""),
			Channel: envutil.String("REDIS_CHANNEL", ""),
		},
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		MetricsAddr:    envutil.String("METRICS_ADDR", ""),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "cmi5-backend"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
		},
		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
	}
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	return cfg, nil
}
