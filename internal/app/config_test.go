package app

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/platform/objectstore"
	"github.com/yungbote/cmi5-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "OBJECT_STORAGE_MODE", "STORAGE_EMULATOR_HOST", "CMI_ORGANIZATION_ID",
		"PACKAGE_MAX_BYTES", "REDIS_ADDR", "METRICS_ADDR", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port: want=8080 got=%q", cfg.Port)
	}
	if cfg.Storage.Mode != objectstore.ObjectStorageModeGCS {
		t.Fatalf("storage mode: want=gcs got=%q", cfg.Storage.Mode)
	}
	if cfg.OrganizationID != services.DefaultOrganizationID {
		t.Fatalf("organization: want default, got %s", cfg.OrganizationID)
	}
	if cfg.Package.MaxBytes != defaultPackageMaxBytes {
		t.Fatalf("max bytes: want=%d got=%d", defaultPackageMaxBytes, cfg.Package.MaxBytes)
	}
	if cfg.Redis.Addr != "" || len(cfg.CORSOrigins) != 0 {
		t.Fatalf("unexpected optional settings: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	org := uuid.New()
	t.Setenv("PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("OBJECT_STORAGE_MODE", "s3")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("CMI_ORGANIZATION_ID", org.String())
	t.Setenv("PACKAGE_MAX_BYTES", "1024")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://lms.example.com, https://admin.example.com")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port: want=9090 got=%q", cfg.Port)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("driver: want=sqlite got=%q", cfg.DB.Driver)
	}
	if cfg.Storage.Mode != objectstore.ObjectStorageModeS3 || cfg.Storage.S3Region != "us-east-1" {
		t.Fatalf("storage: %+v", cfg.Storage)
	}
	if cfg.OrganizationID != org {
		t.Fatalf("organization: want=%s got=%s", org, cfg.OrganizationID)
	}
	if cfg.Package.MaxBytes != 1024 {
		t.Fatalf("max bytes: want=1024 got=%d", cfg.Package.MaxBytes)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown timeout: want=3s got=%s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
	if cfg.Otel.Headers["x-api-key"] != "abc" {
		t.Fatalf("otel headers: %v", cfg.Otel.Headers)
	}
}

func TestLoadConfigKeepsInvalidModeForBootstrap(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "ftp")
	t.Setenv("CMI_ORGANIZATION_ID", "")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Mode != "ftp" {
		t.Fatalf("mode: want=ftp got=%q", cfg.Storage.Mode)
	}
}

func TestLoadConfigRejectsBadOrganizationID(t *testing.T) {
	t.Setenv("CMI_ORGANIZATION_ID", "not-a-uuid")
	if _, err := LoadConfig(logger.Nop()); err == nil {
		t.Fatalf("expected error for malformed CMI_ORGANIZATION_ID")
	}
}
