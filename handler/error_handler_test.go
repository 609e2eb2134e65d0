package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/binder"
	"github.com/dmitrymomot/formkit/handler"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		level  slog.Level
	}{
		{"generic", errors.New("db down"), http.StatusInternalServerError, "internal_error", slog.LevelError},
		{"http error", handler.ErrNotFound, http.StatusNotFound, "not_found", slog.LevelWarn},
		{"wrapped http error", fmt.Errorf("lookup: %w", handler.ErrMethodNotAllowed), http.StatusMethodNotAllowed, "method_not_allowed", slog.LevelWarn},
		{"bad json", fmt.Errorf("%w: eof", binder.ErrInvalidJSON), http.StatusBadRequest, "bad_request", slog.LevelWarn},
		{"bad form", binder.ErrInvalidForm, http.StatusBadRequest, "bad_request", slog.LevelWarn},
		{"too large", binder.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "request_entity_too_large", slog.LevelWarn},
		{"media type", binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "unsupported_media_type", slog.LevelWarn},
		{"no content type", binder.ErrMissingContentType, http.StatusUnsupportedMediaType, "unsupported_media_type", slog.LevelWarn},
		{"validation", formkit.ValidationErrors{{Field: formkit.NewPath("email"), Message: "Invalid email"}}, http.StatusUnprocessableEntity, "validation_error", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := handler.ClassifyError(tt.err)
			assert.Equal(t, tt.status, info.StatusCode)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.level, info.LogLevel)
		})
	}
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("hides internal messages", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))
		eh := handler.NewErrorHandler[handler.Context](log)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		eh(handler.NewContext(rec, req), errors.New("password=hunter2 leaked"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":{"code":"internal_error","message":"Internal Server Error"}}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"status":500`)
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))
		var calls int
		eh := handler.NewErrorHandler[handler.Context](log, handler.WithIssueObserver(func(*http.Request, []formkit.ValidationError) {
			calls++
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		err := fmt.Errorf("signup: %w", formkit.ValidationErrors{{Field: formkit.NewPath("email"), Message: "Invalid email"}})
		eh(handler.NewContext(rec, req), err)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{
			"data":{"errors":[{"field":"email","message":"Invalid email"}]},
			"error":{"code":"validation_error","message":"Unprocessable Entity"}
		}`, rec.Body.String())
		assert.Equal(t, 1, calls)
		assert.Contains(t, buf.String(), `"level":"WARN"`)
		assert.Contains(t, buf.String(), `"issues":1`)
	})
}
