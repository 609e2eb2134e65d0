package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrInvalidTarget        = errors.New("decode target must be a non-nil pointer to struct")
)
