package services

import (
	"bytes"
	"context"
	"fmt"
	"frietkot_server/structs"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3ImageStorage keeps images in an S3-compatible bucket (Supabase Storage, MinIO, AWS).
type S3ImageStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewS3ImageStorage(cfg *structs.StorageConfig) (*S3ImageStorage, error) {
	if cfg.S3Endpoint == "" || cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires STORAGE_S3_ENDPOINT and STORAGE_S3_BUCKET")
	}

	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return newS3ImageStorage(client, cfg), nil
}

func newS3ImageStorage(client *minio.Client, cfg *structs.StorageConfig) *S3ImageStorage {
	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.S3UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.S3Endpoint, cfg.S3Bucket)
	}

	return &S3ImageStorage{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (ss *S3ImageStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = ss.client.PutObject(ctx, ss.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=3600",
	})
	if err != nil {
		return fmt.Errorf("failed to upload image to bucket %s: %w", ss.bucket, err)
	}
	return nil
}

// Remove reports ErrImageNotFound for missing objects, since S3 deletes succeed either way.
func (ss *S3ImageStorage) Remove(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if _, err := ss.client.StatObject(ctx, ss.bucket, key, minio.StatObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to stat image: %w", err)
	}

	if err := ss.client.RemoveObject(ctx, ss.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image from bucket %s: %w", ss.bucket, err)
	}
	return nil
}

func (ss *S3ImageStorage) URLFor(key string) string {
	return ss.publicURL + "/" + strings.TrimPrefix(key, "/")
}

func (ss *S3ImageStorage) KeyFromURL(url string) (string, error) {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	rest, ok := strings.CutPrefix(url, ss.publicURL+"/")
	if !ok {
		return "", fmt.Errorf("url %q does not belong to bucket %s", url, ss.bucket)
	}
	return cleanKey(rest)
}

// NewImageStorage picks the storage backend from configuration.
func NewImageStorage(cfg *structs.StorageConfig) (ImageStorage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalImageStorage(cfg.LocalDir, cfg.PublicPrefix)
	case "s3":
		return NewS3ImageStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
