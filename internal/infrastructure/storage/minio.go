package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vibecut/autoeditor/pkg/config"
)

// MinIOClient wraps the object-storage operations the service needs: bucket
// bootstrap plus presigned upload and download URLs for video objects.
type MinIOClient struct {
	client        *minio.Client
	bucket        string
	publicURL     string
	presignExpiry time.Duration
}

// NewMinIOClient creates a new MinIO client and ensures the bucket exists
func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client:        minioClient,
		bucket:        cfg.BucketName,
		publicURL:     cfg.PublicURL,
		presignExpiry: cfg.PresignExpiry,
	}

	if err := client.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return client, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PresignUpload returns a presigned PUT URL the browser uploads the video
// bytes to directly; the API never proxies the payload.
func (m *MinIOClient) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, objectKey, m.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", objectKey, err)
	}
	return m.rewritePublic(u), nil
}

// PresignDownload returns a presigned GET URL for a stored object
func (m *MinIOClient) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectKey, m.presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", objectKey, err)
	}
	return m.rewritePublic(u), nil
}

// StatObject reports whether the object exists and its size. Used to confirm
// an upload finished before planning starts.
func (m *MinIOClient) StatObject(ctx context.Context, objectKey string) (int64, error) {
	info, err := m.client.StatObject(ctx, m.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", objectKey, err)
	}
	return info.Size, nil
}

// RemoveObject deletes a stored object
func (m *MinIOClient) RemoveObject(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectKey, err)
	}
	return nil
}

// rewritePublic swaps the internal endpoint for the public URL when one is
// configured, so presigned URLs work from outside the cluster network.
func (m *MinIOClient) rewritePublic(u *url.URL) string {
	if m.publicURL == "" {
		return u.String()
	}
	public := strings.TrimRight(m.publicURL, "/")
	return public + u.Path + "?" + u.RawQuery
}
