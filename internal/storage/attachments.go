// Package storage holds the attachment store used for complaint files.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AttachmentStore persists raw files and hands back references to them.
type AttachmentStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (domain.Attachment, error)
	Delete(ctx context.Context, storageID string) error
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// CheckUploads enforces count, size and type limits before anything is uploaded.
func CheckUploads(files []*multipart.FileHeader, maxSize int64) error {
	if len(files) > domain.MaxAttachments {
		return apperrors.NewValidationError(
			fmt.Sprintf("at most %d attachments allowed", domain.MaxAttachments),
			map[string]any{"count": len(files)},
		)
	}
	for _, fh := range files {
		if maxSize > 0 && fh.Size > maxSize {
			return apperrors.NewValidationError("attachment too large", map[string]any{
				"filename":  fh.Filename,
				"max_bytes": maxSize,
			})
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			return apperrors.NewValidationError("unsupported attachment type", map[string]any{"filename": fh.Filename})
		}
	}
	return nil
}

// DisabledStore rejects uploads when no bucket is configured.
type DisabledStore struct{}

// Upload implements AttachmentStore.
func (DisabledStore) Upload(context.Context, string, string, io.Reader) (domain.Attachment, error) {
	return domain.Attachment{}, apperrors.NewStorageError("attachment storage not configured", nil)
}

// Delete implements AttachmentStore.
func (DisabledStore) Delete(context.Context, string) error {
	return nil
}
