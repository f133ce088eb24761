package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/platform/objectstore"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{
			name: "invalid mode",
			err:  &objectstore.ObjectStorageConfigError{Code: objectstore.ObjectStorageConfigErrorInvalidMode},
			want: StorageProviderBootstrapErrorInvalidMode,
		},
		{
			name: "missing emulator host",
			err:  &objectstore.ObjectStorageConfigError{Code: objectstore.ObjectStorageConfigErrorMissingEmulatorHost},
			want: StorageProviderBootstrapErrorMissingEmulatorHost,
		},
		{
			name: "invalid emulator host",
			err:  &objectstore.ObjectStorageConfigError{Code: objectstore.ObjectStorageConfigErrorInvalidEmulatorHost},
			want: StorageProviderBootstrapErrorInvalidEmulatorHost,
		},
		{
			name: "missing s3 region",
			err:  &objectstore.ObjectStorageConfigError{Code: objectstore.ObjectStorageConfigErrorMissingS3Region},
			want: StorageProviderBootstrapErrorInvalidS3Config,
		},
		{
			name: "wrapped config error",
			err: errors.Join(errors.New("validate"), &objectstore.ObjectStorageConfigError{
				Code: objectstore.ObjectStorageConfigErrorInvalidS3Endpoint,
			}),
			want: StorageProviderBootstrapErrorInvalidS3Config,
		},
		{
			name: "anything else",
			err:  errors.New("dial tcp: connection refused"),
			want: StorageProviderBootstrapErrorConnectFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(
				objectstore.ObjectStorageConfig{Mode: objectstore.ObjectStorageModeS3},
				objectstore.BucketConfig{Name: "courses"},
				tc.err,
			)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if got.Bucket != "courses" {
				t.Fatalf("bucket: want=courses got=%q", got.Bucket)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected cause to be preserved")
			}
		})
	}
}

func TestStorageProviderBootstrapErrorCodeDefaults(t *testing.T) {
	if got := storageProviderBootstrapErrorCode(errors.New("x")); got != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("want connect_failed, got %q", got)
	}
	var nilErr *StorageProviderBootstrapError
	if nilErr.Error() == "" || nilErr.Unwrap() != nil {
		t.Fatalf("nil receiver should be safe")
	}
}

func TestResolveStoreInvalidModeSkipsConstructor(t *testing.T) {
	orig := newStore
	t.Cleanup(func() { newStore = orig })
	called := false
	newStore = func(context.Context, *logger.Logger, objectstore.ObjectStorageConfig, objectstore.BucketConfig) (objectstore.Store, error) {
		called = true
		return nil, nil
	}

	_, err := resolveStore(context.Background(), logger.Nop(), Config{
		Storage: objectstore.ObjectStorageConfig{Mode: "ftp"},
	})
	if err == nil {
		t.Fatalf("resolveStore: expected error, got nil")
	}
	if called {
		t.Fatalf("store constructor should not run for an unsupported mode")
	}
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidMode, code)
	}
}

func TestResolveStorePassesConfigThrough(t *testing.T) {
	orig := newStore
	t.Cleanup(func() { newStore = orig })

	var (
		gotStorage objectstore.ObjectStorageConfig
		gotBucket  objectstore.BucketConfig
	)
	expected := &stubStore{}
	newStore = func(_ context.Context, _ *logger.Logger, storageCfg objectstore.ObjectStorageConfig, bucket objectstore.BucketConfig) (objectstore.Store, error) {
		gotStorage = storageCfg
		gotBucket = bucket
		return expected, nil
	}

	got, err := resolveStore(context.Background(), logger.Nop(), Config{
		Storage: objectstore.ObjectStorageConfig{
			Mode:         objectstore.ObjectStorageModeGCSEmulator,
			EmulatorHost: "http://fake-gcs:4443",
		},
		Bucket: objectstore.BucketConfig{Name: "cmi5-courses", PublicBaseURL: "http://localhost:4443"},
	})
	if err != nil {
		t.Fatalf("resolveStore: %v", err)
	}
	if got != expected {
		t.Fatalf("store: expected stub instance")
	}
	if gotStorage.Mode != objectstore.ObjectStorageModeGCSEmulator || gotStorage.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("storage config not passed through: %+v", gotStorage)
	}
	if gotBucket.Name != "cmi5-courses" {
		t.Fatalf("bucket: want=cmi5-courses got=%q", gotBucket.Name)
	}
}

func TestResolveStoreClassifiesConstructorError(t *testing.T) {
	orig := newStore
	t.Cleanup(func() { newStore = orig })
	newStore = func(context.Context, *logger.Logger, objectstore.ObjectStorageConfig, objectstore.BucketConfig) (objectstore.Store, error) {
		return nil, &objectstore.ObjectStorageConfigError{Code: objectstore.ObjectStorageConfigErrorMissingEmulatorHost}
	}

	_, err := resolveStore(context.Background(), logger.Nop(), Config{
		Storage: objectstore.ObjectStorageConfig{Mode: objectstore.ObjectStorageModeGCSEmulator},
	})
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorMissingEmulatorHost {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorMissingEmulatorHost, code)
	}
}

type stubStore struct{}

func (*stubStore) UploadFile(context.Context, string, io.Reader, int64) error { return nil }
func (*stubStore) DeleteFile(context.Context, string) error                  { return nil }
func (*stubStore) ListKeys(context.Context, string) ([]string, error)        { return nil, nil }
func (*stubStore) DeletePrefix(context.Context, string) error                { return nil }
func (*stubStore) GetPublicURL(key string) string                            { return key }
