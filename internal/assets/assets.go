package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/config"
)

// Store uploads generated media and returns a URL to reference it by.
// When no store is configured, callers fall back to inline data URLs.
type Store interface {
	StoreImage(ctx context.Context, objectName, mimeType string, data []byte) (string, error)
}

// MinioStore keeps generated images in an S3-compatible bucket so
// persisted projects stay small.
type MinioStore struct {
	client *minio.Client
	bucket string
	scheme string
	host   string
	logger *zap.Logger
}

func NewMinioStore(ctx context.Context, cfg config.AssetsConfig, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("Created asset bucket", zap.String("bucket", cfg.Bucket))
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		scheme: scheme,
		host:   cfg.Endpoint,
		logger: logger,
	}, nil
}

// StoreImage uploads one image and returns its public URL.
func (s *MinioStore) StoreImage(ctx context.Context, objectName, mimeType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", objectName, err)
	}
	return fmt.Sprintf("%s://%s/%s/%s", s.scheme, s.host, s.bucket, objectName), nil
}

// ExtensionFor maps an image mime type to a file extension.
func ExtensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "png"):
		return "png"
	case strings.Contains(mimeType, "webp"):
		return "webp"
	default:
		return "jpg"
	}
}
