package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", logger.Method("POST"), logger.StatusCode(422))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "method", g[0].Key)
	assert.Equal(t, "status", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestRequestAttrs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.RequestID("abc"), "request_id", "abc"},
		{logger.Component("form"), "component", "form"},
		{logger.Field("address.city"), "field", "address.city"},
		{logger.Method("PATCH"), "method", "PATCH"},
		{logger.URL("http://x/users"), "url", "http://x/users"},
		{logger.Transport("multipart"), "transport", "multipart"},
		{logger.StatusCode(201), "status", int64(201)},
		{logger.Issues(3), "issues", int64(3)},
		{logger.Duration(time.Second), "duration", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}
