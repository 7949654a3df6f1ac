// Package attachment stores request receipts in object storage.
package attachment

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	attachmenterrors "go-workforce/internal/attachment/errors"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	MaxFileSize  int64 = 10 << 20
	MaxFileCount       = 5
)

var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// File is the stored reference kept on the owning request.
type File struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

//go:generate mockgen -source=attachment.go -destination=mock/attachment_store_mock.go -package=mock
type Store interface {
	Put(ctx context.Context, prefix string, u Upload) (File, error)
}

// ObjectPutter is the part of *minio.Client the store uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type MinioStore struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
	logger *zap.Logger
}

func NewMinioStore(client ObjectPutter, bucket string, logger ...*zap.Logger) *MinioStore {
	l := zap.L().Named("attachment.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attachment.store")
	}
	return &MinioStore{client: client, bucket: bucket, now: time.Now, logger: l}
}

// Validate checks size and type before anything is uploaded.
func Validate(u Upload) error {
	if u.Size > MaxFileSize {
		return attachmenterrors.ErrFileTooLarge
	}
	if _, ok := allowedTypes[normalizeType(u.ContentType)]; !ok {
		return attachmenterrors.ErrUnsupportedType
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, prefix string, u Upload) (File, error) {
	if s == nil || s.client == nil {
		return File{}, attachmenterrors.ErrStorageNotReady
	}
	if err := Validate(u); err != nil {
		return File{}, err
	}

	mime := normalizeType(u.ContentType)
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if ext == "" {
		ext = allowedTypes[mime]
	}
	now := s.now().UTC()
	object := fmt.Sprintf("%s/%s/%s%s", strings.Trim(prefix, "/"), now.Format("2006/01/02"), uuid.NewString(), ext)

	if _, err := s.client.PutObject(ctx, s.bucket, object, u.Body, u.Size, minio.PutObjectOptions{ContentType: mime}); err != nil {
		s.logger.Error("upload attachment failed", zap.String("object", object), zap.Error(err))
		return File{}, fmt.Errorf("upload %s: %w", u.Filename, err)
	}

	s.logger.Debug("attachment stored", zap.String("object", object), zap.Int64("size", u.Size))
	return File{
		Filename:   filepath.Base(u.Filename),
		Path:       object,
		MimeType:   mime,
		Size:       u.Size,
		UploadedAt: now,
	}, nil
}

func normalizeType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}
