package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/binder"
	"github.com/dmitrymomot/formkit/handler"
)

type user struct {
	Email    string
	Password string
	Avatar   *binder.FileUpload
}

// validateUser mirrors a typical signup schema.
func validateUser(in binder.Input) (user, error) {
	var (
		u    user
		errs formkit.ValidationErrors
	)
	u.Email, _ = in.String("email")
	u.Password, _ = in.String("password")
	u.Avatar = in.File("avatar")

	if !strings.Contains(u.Email, "@") {
		errs.Add(formkit.NewPath("email"), "Invalid email")
	}
	if len(u.Password) < 8 {
		errs.Add(formkit.NewPath("password"), "Password must be at least 8 characters")
	}
	if len(errs) > 0 {
		return user{}, errs
	}
	return u, nil
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, fields map[string]string, file string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="avatar"; filename="`+file+`"`)
		h.Set("Content-Type", "image/png")
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = w.Write([]byte("PNG"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/users", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReadValidatedBody(t *testing.T) {
	t.Parallel()

	t.Run("valid json", func(t *testing.T) {
		t.Parallel()
		res, err := handler.ReadValidatedBody(jsonRequest(`{"email":"a@b.com","password":"longenough"}`), validateUser)
		require.NoError(t, err)
		require.True(t, res.OK())
		assert.Equal(t, "a@b.com", res.Data.Email)
		assert.Empty(t, res.Failure)
	})

	t.Run("failure keeps issue order", func(t *testing.T) {
		t.Parallel()
		res, err := handler.ReadValidatedBody(jsonRequest(`{"email":"nope","password":"short"}`), validateUser)
		require.NoError(t, err)
		require.False(t, res.OK())
		require.Len(t, res.Failure, 2)
		assert.Equal(t, "email", res.Failure[0].Field.String())
		assert.Equal(t, "password", res.Failure[1].Field.String())
	})

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("email=a%40b.com&password=longenough"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res, err := handler.ReadValidatedBody(req, validateUser)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})

	t.Run("rejects multipart", func(t *testing.T) {
		t.Parallel()
		_, err := handler.ReadValidatedBody(multipartRequest(t, map[string]string{"email": "a@b.com"}, ""), validateUser)
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		_, err := handler.ReadValidatedBody(jsonRequest(`{"email":`), validateUser)
		assert.ErrorIs(t, err, binder.ErrInvalidJSON)
	})

	t.Run("other validator errors are returned", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := handler.ReadValidatedBody(jsonRequest(`{}`), func(binder.Input) (user, error) {
			return user{}, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}

func TestReadValidatedInput(t *testing.T) {
	t.Parallel()

	t.Run("multipart with file", func(t *testing.T) {
		t.Parallel()
		req := multipartRequest(t, map[string]string{"email": "a@b.com", "password": "longenough"}, "me.png")
		res, err := handler.ReadValidatedInput(req, validateUser)
		require.NoError(t, err)
		require.True(t, res.OK())
		require.NotNil(t, res.Data.Avatar)
		assert.Equal(t, "me.png", res.Data.Avatar.Filename)
		assert.Equal(t, int64(3), res.Data.Avatar.Size)
	})

	t.Run("multipart failure", func(t *testing.T) {
		t.Parallel()
		req := multipartRequest(t, map[string]string{"email": "a@b.com", "password": "short"}, "")
		res, err := handler.ReadValidatedInput(req, validateUser)
		require.NoError(t, err)
		require.False(t, res.OK())
		assert.Equal(t, "Password must be at least 8 characters", res.Failure.Get("password"))
	})

	t.Run("empty multipart", func(t *testing.T) {
		t.Parallel()
		req := multipartRequest(t, nil, "")
		_, err := handler.ReadValidatedInput(req, validateUser)
		assert.ErrorIs(t, err, binder.ErrInvalidForm)
	})

	t.Run("json delegates to body reader", func(t *testing.T) {
		t.Parallel()
		res, err := handler.ReadValidatedInput(jsonRequest(`{"email":"a@b.com","password":"longenough"}`), validateUser)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})
}

func TestBuildValidationError(t *testing.T) {
	t.Parallel()

	t.Run("422 body", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		resp := handler.BuildValidationError([]formkit.ValidationError{
			{Field: formkit.NewPath("password"), Message: "Password must be at least 8 characters"},
			{Field: formkit.NewPath("tags", 0), Message: "Required"},
		})
		require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"data": {"errors": [
				{"field": "password", "message": "Password must be at least 8 characters"},
				{"field": "tags.0", "message": "Required"}
			]},
			"error": {"code": "validation_error", "message": "Unprocessable Entity"}
		}`, rec.Body.String())
	})

	t.Run("empty failure is a server error", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, handler.BuildValidationError(nil).Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body handler.JSONResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, "Something went wrong", body.Error.Message)
	})
}
