package form

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/formkit"
)

var (
	// ErrTimeout is reported to OnError when the request deadline elapses.
	ErrTimeout = errors.New("form: request timed out")
	// ErrInvalidRequest is reported when the request cannot be built.
	ErrInvalidRequest = errors.New("form: invalid request")
	// ErrFileUnavailable is returned when a file payload cannot be read.
	ErrFileUnavailable = errors.New("form: file unavailable")
)

// NetworkError wraps a transport failure where no usable response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("form: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is reported to OnError for any non-2xx response.
// Data holds the decoded body, or the raw text when it is not JSON.
type HTTPError struct {
	StatusCode int
	Status     string
	Header     http.Header
	Data       any
	Raw        []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("form: request failed with status %d", e.StatusCode)
}

// ValidationErrors extracts the field errors of a 422 response carrying
// a data.errors array.
func (e *HTTPError) ValidationErrors() (formkit.ValidationErrors, bool) {
	if e.StatusCode != http.StatusUnprocessableEntity {
		return nil, false
	}
	return decodeValidationErrors(e.Data)
}

// decodeValidationErrors reads {"data": {"errors": [{field, message}]}}.
// The field may be a dot-joined string or an array of keys and indexes.
func decodeValidationErrors(body any) (formkit.ValidationErrors, bool) {
	root, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	data, ok := root["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := data["errors"].([]any)
	if !ok {
		return nil, false
	}

	out := make(formkit.ValidationErrors, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		msg, _ := obj["message"].(string)
		var path formkit.Path
		switch f := obj["field"].(type) {
		case string:
			path = formkit.ParsePath(f)
		case []any:
			path = formkit.NewPath(f...)
		}
		out = append(out, formkit.ValidationError{Field: path, Message: msg})
	}
	return out, true
}
