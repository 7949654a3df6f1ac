package attachment

import (
	"context"
	"mime/multipart"
	"net/http"

	attachmenterrors "go-workforce/internal/attachment/errors"
)

// StoreAll validates every part first so a bad file stores nothing.
func StoreAll(ctx context.Context, store Store, prefix string, headers []*multipart.FileHeader) ([]File, error) {
	if store == nil {
		return nil, attachmenterrors.ErrStorageNotReady
	}
	if len(headers) == 0 {
		return nil, attachmenterrors.ErrNoFiles
	}
	if len(headers) > MaxFileCount {
		return nil, attachmenterrors.ErrTooManyFiles
	}
	for _, fh := range headers {
		if err := Validate(Upload{Filename: fh.Filename, ContentType: contentType(fh), Size: fh.Size}); err != nil {
			return nil, err
		}
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := storeOne(ctx, store, prefix, fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func storeOne(ctx context.Context, store Store, prefix string, fh *multipart.FileHeader) (File, error) {
	body, err := fh.Open()
	if err != nil {
		return File{}, err
	}
	defer body.Close()
	return store.Put(ctx, prefix, Upload{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Size:        fh.Size,
		Body:        body,
	})
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	f, err := fh.Open()
	if err != nil {
		return ""
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n])
}
