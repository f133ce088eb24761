package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/platform/objectstore"
)

var newStore = objectstore.NewStore

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorInvalidS3Config     StorageProviderBootstrapErrorCode = "invalid_s3_config"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Bucket       string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q bucket=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.Bucket,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveStore opens the course bucket for the configured mode. Every failure
// comes back as a *StorageProviderBootstrapError.
func resolveStore(ctx context.Context, log *logger.Logger, cfg Config) (objectstore.Store, error) {
	storageCfg := cfg.Storage
	modeSource := storageCfg.ModeSource()

	if !objectstore.IsSupportedObjectStorageMode(storageCfg.Mode) {
		err := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorInvalidMode,
			Mode:         string(storageCfg.Mode),
			EmulatorHost: storageCfg.EmulatorHost,
			Bucket:       cfg.Bucket.Name,
			Cause:        fmt.Errorf("unsupported object storage mode %q", storageCfg.Mode),
		}
		log.Error(
			"Object storage provider selection failed",
			"mode", storageCfg.Mode,
			"mode_source", modeSource,
			"error_code", err.Code,
			"error", err,
		)
		return nil, err
	}

	log.Info(
		"Selecting object storage provider",
		"mode", storageCfg.Mode,
		"mode_source", modeSource,
		"compatibility_fallback", storageCfg.CompatibilityFallback,
		"emulator_host", storageCfg.EmulatorHost,
		"bucket", cfg.Bucket.Name,
	)

	store, err := newStore(ctx, log, storageCfg, cfg.Bucket)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, cfg.Bucket, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"mode_source", modeSource,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return store, nil
}

func classifyStorageProviderBootstrapError(storageCfg objectstore.ObjectStorageConfig, bucket objectstore.BucketConfig, err error) error {
	out := &StorageProviderBootstrapError{
		Code:         StorageProviderBootstrapErrorConnectFailed,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Bucket:       bucket.Name,
		Cause:        err,
	}
	var cfgErr *objectstore.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case objectstore.ObjectStorageConfigErrorInvalidMode:
			out.Code = StorageProviderBootstrapErrorInvalidMode
		case objectstore.ObjectStorageConfigErrorMissingEmulatorHost:
			out.Code = StorageProviderBootstrapErrorMissingEmulatorHost
		case objectstore.ObjectStorageConfigErrorInvalidEmulatorHost:
			out.Code = StorageProviderBootstrapErrorInvalidEmulatorHost
		case objectstore.ObjectStorageConfigErrorMissingS3Region,
			objectstore.ObjectStorageConfigErrorInvalidS3Endpoint:
			out.Code = StorageProviderBootstrapErrorInvalidS3Config
		}
	}
	return out
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
