package upload

import "errors"

var (
	ErrNilFile      = errors.New("upload: file is nil")
	ErrInvalidPath  = errors.New("upload: invalid path") // Prevents path traversal
	ErrFileNotFound = errors.New("upload: file not found")

	ErrFailedToWriteFile       = errors.New("upload: failed to write file")
	ErrFailedToDeleteFile      = errors.New("upload: failed to delete file")
	ErrFailedToCreateDirectory = errors.New("upload: failed to create directory")

	// S3 error classification
	ErrBucketNotFound     = errors.New("upload: bucket not found")
	ErrAccessDenied       = errors.New("upload: access denied")
	ErrRequestTimeout     = errors.New("upload: request timed out")
	ErrServiceUnavailable = errors.New("upload: service temporarily unavailable")

	ErrOperationTimeout  = errors.New("upload: operation timed out")
	ErrOperationCanceled = errors.New("upload: operation canceled")

	ErrInvalidConfig      = errors.New("upload: invalid configuration")
	ErrUnknownDriver      = errors.New("upload: unknown storage driver")
	ErrFailedToLoadConfig = errors.New("upload: failed to load AWS config")
)
