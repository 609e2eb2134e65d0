package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/handler"
)

func render(t *testing.T, resp handler.Response) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	return rec
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.JSON(map[string]string{"id": "1"}, handler.WithJSONMeta(map[string]any{"page": 1})))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"1"},"meta":{"page":1}}`, rec.Body.String())

	rec = render(t, handler.JSON(handler.JSONResponse{Data: "x"}, handler.WithJSONStatus(http.StatusAccepted)))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"data":"x"}`, rec.Body.String())
}

func TestJSONRaw(t *testing.T) {
	t.Parallel()
	rec := render(t, handler.JSONRaw(map[string]any{"statusCode": 201, "message": "success"}, handler.WithJSONStatus(http.StatusCreated)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"statusCode":201,"message":"success"}`, rec.Body.String())
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.JSONError(handler.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"Not Found"}}`, rec.Body.String())

	rec = render(t, handler.JSONError(errors.New("secret")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, http.StatusNoContent, render(t, handler.Empty()).Code)
	assert.Equal(t, http.StatusCreated, render(t, handler.EmptyWithStatus(http.StatusCreated)).Code)
}
