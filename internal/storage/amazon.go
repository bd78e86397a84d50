package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/AnasB0/Resto-Pro/internal/config"
	cmstorage "github.com/chartmuseum/storage"
)

const (
	DriverMinio  = "minio"
	DriverAmazon = "aws"

	defaultRegion = "us-east-1"
)

// AmazonStorage reads objects through chartmuseum's storage backends. With
// no static keys configured the AWS SDK credential chain applies.
type AmazonStorage struct {
	backend cmstorage.Backend
}

func NewAmazonStorage(cfg config.ObjectStorageConfig) (*AmazonStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("object storage bucket is required")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		scheme := "https"
		if !cfg.UseSSL {
			scheme = "http"
		}
		endpoint = fmt.Sprintf("%s://%s", scheme, strings.TrimPrefix(endpoint, "//"))
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	// the backend builds its own AWS session, so static keys go through the environment
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		os.Setenv("AWS_ACCESS_KEY_ID", cfg.AccessKey)
		os.Setenv("AWS_SECRET_ACCESS_KEY", cfg.SecretKey)
	}

	forcePathStyle := endpoint != ""
	backend := cmstorage.NewAmazonS3BackendWithOptions(cfg.Bucket, "", region, endpoint, "", &cmstorage.AmazonS3Options{
		S3ForcePathStyle: &forcePathStyle,
	})
	return NewBackendStorage(backend), nil
}

// NewBackendStorage wraps any chartmuseum backend, e.g. a local filesystem one.
func NewBackendStorage(backend cmstorage.Backend) *AmazonStorage {
	return &AmazonStorage{backend: backend}
}

func (s *AmazonStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objects, err := s.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects for prefix %s: %w", prefix, err)
	}

	// backend paths are relative to the listed prefix
	out := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		out = append(out, ObjectInfo{
			Key:  path.Join(prefix, obj.Path),
			Size: int64(len(obj.Content)),
		})
	}
	return out, nil
}

func (s *AmazonStorage) DownloadObject(ctx context.Context, key string, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	obj, err := s.backend.GetObject(key)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to prepare directory for %s: %w", destPath, err)
	}
	if err := os.WriteFile(destPath, obj.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// New returns the ObjectStorage for cfg.Driver. An empty driver means minio.
func New(cfg config.ObjectStorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMinio:
		return NewMinioStorage(cfg)
	case DriverAmazon:
		return NewAmazonStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown object storage driver %q", cfg.Driver)
	}
}
