// Package storage wraps the MinIO object store holding criminal record
// photos. Uploading a new photo and removing a replaced one are two separate
// effects; the caller performs them in that order and accepts that a failed
// record update can leave the new object orphaned (the background sweeper
// reclaims those).
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/Negi04/Criminals-Record-Management-System/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const photoPrefix = "criminals/"

// PhotoStore stores and serves record photos from a single bucket.
type PhotoStore struct {
	mc      *minio.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewPhotoStore(cfg config.StorageConfig, logger *slog.Logger) (*PhotoStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage access_key and secret_key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &PhotoStore{
		mc:      mc,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// EnsureBucket creates the photo bucket when it does not exist yet.
func (s *PhotoStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		s.logger.Info("photo bucket created", slog.String("bucket", s.bucket))
	}
	return nil
}

// Save uploads a photo under a fresh object key and returns its public URL.
// ext must include the leading dot (".jpg").
func (s *PhotoStore) Save(ctx context.Context, r io.Reader, size int64, contentType, ext string) (string, error) {
	key := photoPrefix + uuid.New().String() + strings.ToLower(ext)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.mc.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete removes the object a photo URL points at. Unknown URLs are ignored.
func (s *PhotoStore) Delete(ctx context.Context, url string) error {
	key := s.keyFromURL(url)
	if key == "" {
		return nil
	}
	if err := s.mc.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ListURLs returns the public URL of every stored photo object.
func (s *PhotoStore) ListURLs(ctx context.Context) ([]string, error) {
	urls := make([]string, 0)
	for obj := range s.mc.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: photoPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		urls = append(urls, s.baseURL+"/"+obj.Key)
	}
	return urls, nil
}

func (s *PhotoStore) keyFromURL(url string) string {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(url, s.baseURL+"/")
}

// AllowedPhotoExt reports whether the file extension is an accepted image
// type: jpeg, jpg, png, gif, webp.
func AllowedPhotoExt(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpeg", ".jpg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// MaxPhotoSize is the photo upload cap in bytes.
const MaxPhotoSize = 5 << 20
