package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"DriftFM/config"
	"DriftFM/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var minioClient *minio.Client

// InitMinio initializes the MinIO client used to resolve media URLs.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", cfg.MinioBucket)
	}

	minioClient = client
	logger.Info("connected to MinIO", logger.String("bucket", cfg.MinioBucket))
	return nil
}

// GetMinioClient returns the global client, nil before InitMinio.
func GetMinioClient() *minio.Client {
	return minioClient
}

// MediaResolver turns catalog object keys into playable URLs.
type MediaResolver struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMediaResolver creates a resolver issuing presigned GET URLs.
func NewMediaResolver(client *minio.Client, bucket string) *MediaResolver {
	return &MediaResolver{
		client: client,
		bucket: bucket,
		expiry: 4 * time.Hour,
	}
}

// ResolveURL returns a presigned URL for an object key. An empty key
// resolves to an empty URL.
func (r *MediaResolver) ResolveURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	if r.client == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	u, err := r.client.PresignedGetObject(ctx, r.bucket, objectKey, r.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %q: %w", objectKey, err)
	}
	return u.String(), nil
}
