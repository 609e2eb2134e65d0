package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse is reported when a handler returns a nil Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with an HTTP status code and a machine readable key.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // e.g. "not_found"
}

func (e HTTPError) Error() string {
	return e.Key
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrUnprocessableEntity   = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrInternalServerError   = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrServiceUnavailable    = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)
