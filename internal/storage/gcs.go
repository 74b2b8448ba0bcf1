package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// GCSStore keeps attachments in a Google Cloud Storage bucket.
type GCSStore struct {
	client  *gcs.Client
	bucket  string
	prefix  string
	maxSize int64
	logger  *zap.Logger
}

// NewGCSStore connects to GCS and checks that the bucket is reachable.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(cfg.Bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("access bucket %s: %w", cfg.Bucket, err)
	}
	logger.Info("attachment bucket ready", zap.String("bucket", cfg.Bucket))
	return &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.ObjectPrefix, "/"),
		maxSize: cfg.MaxFileSize(),
		logger:  logger,
	}, nil
}

// Upload streams r into a new object and returns its public reference.
func (s *GCSStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (domain.Attachment, error) {
	objectName := s.objectName(filename)

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := s.client.Bucket(s.bucket).Object(objectName).NewWriter(writeCtx)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	writer.ContentType = contentType

	n, err := io.Copy(writer, io.LimitReader(r, s.maxSize+1))
	if err == nil && n > s.maxSize {
		err = errors.New("attachment exceeds size limit")
	}
	if err != nil {
		cancel()
		_ = writer.Close()
		return domain.Attachment{}, apperrors.NewStorageError("failed to upload attachment", err)
	}
	if err := writer.Close(); err != nil {
		return domain.Attachment{}, apperrors.NewStorageError("failed to upload attachment", err)
	}

	s.logger.Debug("attachment uploaded", zap.String("object", objectName), zap.Int64("bytes", n))
	return domain.Attachment{
		Filename:   filename,
		StorageURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName),
		StorageID:  objectName,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// Delete removes the object; a missing object is not an error.
func (s *GCSStore) Delete(ctx context.Context, storageID string) error {
	err := s.client.Bucket(s.bucket).Object(storageID).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return apperrors.NewStorageError("failed to delete attachment", err)
	}
	return nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GCSStore) objectName(filename string) string {
	name := fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().UnixNano(), strings.ToLower(filepath.Ext(filename)))
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}
