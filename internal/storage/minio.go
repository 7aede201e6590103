// Package storage provides object storage for uploaded assets (MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"leadgrid_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Service is the object storage interface consumed by domain modules.
type Service interface {
	EnsureBucketExists(ctx context.Context, bucket string) error
	Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error
	PresignedGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// MinIOService implements Service against a MinIO/S3 endpoint.
type MinIOService struct {
	client      *minio.Client
	maxFileSize int64
}

// NewMinIOService builds the storage client from configuration.
func NewMinIOService(cfg config.MinIOConfig) (*MinIOService, error) {
	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinIOService{client: client, maxFileSize: cfg.GetMinIOMaxFileSize()}, nil
}

// MaxFileSize returns the configured upload size cap in bytes.
func (s *MinIOService) MaxFileSize() int64 {
	return s.maxFileSize
}

// EnsureBucketExists creates the bucket when missing.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores an object.
func (s *MinIOService) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PresignedGetURL returns a time-limited download URL for an object.
func (s *MinIOService) PresignedGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return u.String(), nil
}

// Delete removes an object.
func (s *MinIOService) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Compile-time check that MinIOService implements Service.
var _ Service = (*MinIOService)(nil)
