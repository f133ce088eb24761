package objectstore

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/yungbote/cmi5-backend/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
	ObjectStorageModeS3          ObjectStorageMode = "s3"
)

type ObjectStorageConfig struct {
	Mode                  ObjectStorageMode
	EmulatorHost          string
	CompatibilityFallback bool

	// S3 / MinIO
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
}

func IsSupportedObjectStorageMode(mode ObjectStorageMode) bool {
	switch mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeS3:
		return true
	default:
		return false
	}
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

func (cfg ObjectStorageConfig) ModeSource() string {
	if cfg.CompatibilityFallback {
		return "compatibility_fallback"
	}
	return "explicit_or_default"
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
	ObjectStorageConfigErrorMissingS3Region     ObjectStorageConfigErrorCode = "missing_s3_region"
	ObjectStorageConfigErrorInvalidS3Endpoint   ObjectStorageConfigErrorCode = "invalid_s3_endpoint"
)

type ObjectStorageConfigError struct {
	Code         ObjectStorageConfigErrorCode
	Mode         string
	EmulatorHost string
	Endpoint     string
	Cause        error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf(
			"invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Mode,
			ObjectStorageModeGCS,
			ObjectStorageModeGCSEmulator,
			ObjectStorageModeS3,
		)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf(
			"OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set",
			ObjectStorageModeGCSEmulator,
		)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf(
			"invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443",
			e.EmulatorHost,
		)
	case ObjectStorageConfigErrorMissingS3Region:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires S3_REGION to be set", ObjectStorageModeS3)
	case ObjectStorageConfigErrorInvalidS3Endpoint:
		return fmt.Sprintf("invalid S3_ENDPOINT=%q; expected absolute URL like http://minio:9000", e.Endpoint)
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost:      strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
		S3Endpoint:        envutil.String("S3_ENDPOINT", ""),
		S3Region:          envutil.String("S3_REGION", ""),
		S3AccessKeyID:     envutil.String("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: envutil.String("S3_SECRET_ACCESS_KEY", ""),
		S3UsePathStyle:    envutil.Bool("S3_USE_PATH_STYLE", true),
	}

	rawMode := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	mode := ObjectStorageMode(strings.ToLower(rawMode))

	switch mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
			cfg.CompatibilityFallback = true
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeS3:
		cfg.Mode = mode
	default:
		return cfg, &ObjectStorageConfigError{
			Code: ObjectStorageConfigErrorInvalidMode,
			Mode: rawMode,
		}
	}

	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if !IsSupportedObjectStorageMode(cfg.Mode) {
		return &ObjectStorageConfigError{
			Code: ObjectStorageConfigErrorInvalidMode,
			Mode: string(cfg.Mode),
		}
	}
	switch cfg.Mode {
	case ObjectStorageModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return &ObjectStorageConfigError{
				Code: ObjectStorageConfigErrorMissingEmulatorHost,
				Mode: string(cfg.Mode),
			}
		}
		if !isAbsoluteURL(cfg.EmulatorHost) {
			return &ObjectStorageConfigError{
				Code:         ObjectStorageConfigErrorInvalidEmulatorHost,
				Mode:         string(cfg.Mode),
				EmulatorHost: cfg.EmulatorHost,
			}
		}
	case ObjectStorageModeS3:
		if strings.TrimSpace(cfg.S3Region) == "" {
			return &ObjectStorageConfigError{
				Code: ObjectStorageConfigErrorMissingS3Region,
				Mode: string(cfg.Mode),
			}
		}
		if cfg.S3Endpoint != "" && !isAbsoluteURL(cfg.S3Endpoint) {
			return &ObjectStorageConfigError{
				Code:     ObjectStorageConfigErrorInvalidS3Endpoint,
				Mode:     string(cfg.Mode),
				Endpoint: cfg.S3Endpoint,
			}
		}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && strings.TrimSpace(u.Scheme) != "" && strings.TrimSpace(u.Host) != ""
}
