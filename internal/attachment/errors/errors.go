package attachmenterrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrNoFiles         = apperror.New("NO_FILES", "At least one file is required", http.StatusBadRequest)
	ErrTooManyFiles    = apperror.New("TOO_MANY_FILES", "Too many files in one upload", http.StatusBadRequest)
	ErrFileTooLarge    = apperror.New("FILE_TOO_LARGE", "File exceeds the maximum allowed size", http.StatusBadRequest)
	ErrUnsupportedType = apperror.New("UNSUPPORTED_FILE_TYPE", "Only PDF, JPEG and PNG files are accepted", http.StatusBadRequest)
	ErrStorageNotReady = apperror.New("STORAGE_UNAVAILABLE", "File storage is not configured", http.StatusServiceUnavailable)
)
