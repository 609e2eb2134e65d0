package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/binder"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// IssueObserver is told about every validation failure rendered by the error
// handler.
type IssueObserver func(r *http.Request, issues []formkit.ValidationError)

// ErrorHandlerOption configures NewErrorHandler.
type ErrorHandlerOption func(*errorHandlerConfig)

type errorHandlerConfig struct {
	observers []IssueObserver
}

// WithIssueObserver registers an observer for validation failures.
func WithIssueObserver(fn IssueObserver) ErrorHandlerOption {
	return func(c *errorHandlerConfig) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// ErrorInfo is the classification of an error.
type ErrorInfo struct {
	StatusCode int
	Code       string
	LogLevel   slog.Level
	Validation bool
	Issues     []formkit.ValidationError
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ClassifyError maps an error to a status code. Validation failures map to
// 422, binder errors to 400, 413 or 415, HTTPError to its own code and
// everything else to 500.
func ClassifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
	}

	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		info.StatusCode, info.Code = httpErr.Code, httpErr.Key
	case errors.Is(err, binder.ErrBodyTooLarge):
		info.StatusCode, info.Code = http.StatusRequestEntityTooLarge, ErrRequestEntityTooLarge.Key
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		info.StatusCode, info.Code = http.StatusUnsupportedMediaType, ErrUnsupportedMediaType.Key
	case errors.Is(err, binder.ErrInvalidJSON), errors.Is(err, binder.ErrInvalidForm):
		info.StatusCode, info.Code = http.StatusBadRequest, ErrBadRequest.Key
	}

	if issues, ok := formkit.ExtractIssues(err); ok {
		info.StatusCode, info.Code = http.StatusUnprocessableEntity, "validation_error"
		info.Validation, info.Issues = true, issues
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// NewErrorHandler renders errors as JSON. Validation failures use
// BuildValidationError; other errors render {"error":{"code","message"}}
// without exposing internal messages. 4xx are logged at Warn, the rest at
// Error. A nil logger means slog.Default.
func NewErrorHandler[C Context](log *slog.Logger, opts ...ErrorHandlerOption) ErrorHandler[C] {
	cfg := &errorHandlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx C, err error) {
		l := log
		if l == nil {
			l = slog.Default()
		}
		r := ctx.Request()
		info := ClassifyError(err)
		logError(r.Context(), l, r, err, info)

		var resp Response
		if info.Validation {
			for _, observe := range cfg.observers {
				observe(r, info.Issues)
			}
			resp = BuildValidationError(info.Issues)
		} else {
			resp = JSONRaw(JSONResponse{Error: &ErrorDetail{
				Code:    info.Code,
				Message: http.StatusText(info.StatusCode),
			}}, WithJSONStatus(info.StatusCode))
		}

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			l.ErrorContext(r.Context(), "failed to render error response",
				logger.Component("error_handler"),
				logger.Error(renderErr),
			)
		}
	}
}

func logError(ctx context.Context, log *slog.Logger, r *http.Request, err error, info ErrorInfo) {
	attrs := []slog.Attr{
		logger.Component("error_handler"),
		logger.Error(err),
		logger.StatusCode(info.StatusCode),
		logger.Method(r.Method),
		logger.URL(r.URL.Path),
	}
	if info.Validation {
		attrs = append(attrs, logger.Issues(len(info.Issues)))
	}
	log.LogAttrs(ctx, info.LogLevel, "request error", attrs...)
}
