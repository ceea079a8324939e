// Package storage archives rendered quote PDFs in MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"rental_leads_backend/platform/config"
)

// PresignedURLTTL is the default expiration time for presigned URLs (15 minutes).
const PresignedURLTTL = 15 * time.Minute

// MinIOService stores quote PDFs in a MinIO bucket.
type MinIOService struct {
	client *minio.Client
	bucket string
}

// NewMinIOService creates the MinIO storage service. Returns nil when no
// endpoint is configured so the rest of the app can skip archival.
func NewMinIOService(cfg config.MinIOConfig) (*MinIOService, error) {
	if cfg.GetMinIOEndpoint() == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{
		client: client,
		bucket: cfg.GetMinioBucketQuotePDFs(),
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	return nil
}

// Bucket returns the configured quote PDF bucket name.
func (s *MinIOService) Bucket() string {
	return s.bucket
}

// UploadQuotePDF stores the PDF under a year-scoped key and returns the
// object key. Implements the quote service's Archiver port.
func (s *MinIOService) UploadQuotePDF(ctx context.Context, quoteNumber string, data []byte) (string, error) {
	key := fmt.Sprintf("quotes/%d/%s.pdf", time.Now().Year(), quoteNumber)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload quote pdf: %w", err)
	}
	return key, nil
}

// GenerateDownloadURL creates a presigned URL for downloading an archived PDF.
func (s *MinIOService) GenerateDownloadURL(ctx context.Context, fileKey string) (string, error) {
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presignedURL.String(), nil
}
