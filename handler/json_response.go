package handler

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
)

// JSONResponse is the envelope of every JSON response.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return sonic.ConfigStd.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets the status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

// WithJSONMeta attaches metadata to an enveloped response.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		if env, ok := r.body.(JSONResponse); ok {
			env.Meta = meta
			r.body = env
		}
	}
}

// JSON renders v inside the {"data": ...} envelope with status 200.
// A JSONResponse is rendered as is.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}
	if env, ok := v.(JSONResponse); ok {
		r.body = env
	} else {
		r.body = JSONResponse{Data: v}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONRaw renders v without the envelope.
func JSONRaw(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as {"error": {"code", "message"}}. An HTTPError
// supplies the status and code; anything else is a 500 whose message is
// not exposed.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusInternalServerError}
	detail := &ErrorDetail{Code: "internal_error", Message: http.StatusText(http.StatusInternalServerError)}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		r.status = httpErr.Code
		detail = &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}
	}
	r.body = JSONResponse{Error: detail}

	for _, opt := range opts {
		opt(r)
	}
	return r
}
