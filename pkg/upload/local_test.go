package upload_test

import (
	"context"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/binder"
	"github.com/dmitrymomot/formkit/pkg/upload"
)

func fileUpload(name, contentType, content string) *binder.FileUpload {
	h := make(textproto.MIMEHeader)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &binder.FileUpload{
		Filename: name,
		Size:     int64(len(content)),
		Header:   h,
		Content:  []byte(content),
	}
}

func TestLocalStore(t *testing.T) {
	t.Parallel()

	t.Run("save and delete", func(t *testing.T) {
		t.Parallel()
		store, err := upload.NewLocalStore(t.TempDir(), "/uploads/")
		require.NoError(t, err)

		obj, err := store.Save(context.Background(), fileUpload("Me.PNG", "image/png", "png-bytes"), "avatars")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(obj.Key, "avatars/"))
		assert.True(t, strings.HasSuffix(obj.Key, ".png"))
		assert.Equal(t, "Me.PNG", obj.Filename)
		assert.Equal(t, "image/png", obj.ContentType)
		assert.Equal(t, int64(9), obj.Size)
		assert.Equal(t, "/uploads/"+obj.Key, obj.URL)

		p, err := store.Path(obj.Key)
		require.NoError(t, err)
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))

		require.NoError(t, store.Delete(context.Background(), obj.Key))
		assert.ErrorIs(t, store.Delete(context.Background(), obj.Key), upload.ErrFileNotFound)
	})

	t.Run("keys are unique", func(t *testing.T) {
		t.Parallel()
		store, err := upload.NewLocalStore(t.TempDir(), "")
		require.NoError(t, err)
		a, err := store.Save(context.Background(), fileUpload("a.txt", "", "a"), "")
		require.NoError(t, err)
		b, err := store.Save(context.Background(), fileUpload("a.txt", "", "b"), "")
		require.NoError(t, err)
		assert.NotEqual(t, a.Key, b.Key)
		assert.Equal(t, a.Key, a.URL)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()
		store, err := upload.NewLocalStore(t.TempDir(), "")
		require.NoError(t, err)

		_, err = store.Save(context.Background(), fileUpload("x.txt", "", "x"), "../outside")
		assert.ErrorIs(t, err, upload.ErrInvalidPath)
		assert.ErrorIs(t, store.Delete(context.Background(), "../../etc/passwd"), upload.ErrInvalidPath)
	})

	t.Run("client filename cannot escape", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := upload.NewLocalStore(dir, "")
		require.NoError(t, err)
		obj, err := store.Save(context.Background(), fileUpload("../../evil.sh", "", "x"), "in")
		require.NoError(t, err)
		assert.Equal(t, "evil.sh", obj.Filename)
		p, err := store.Path(obj.Key)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, filepath.Join(dir, "in")))
	})

	t.Run("nil file and cancelled context", func(t *testing.T) {
		t.Parallel()
		store, err := upload.NewLocalStore(t.TempDir(), "")
		require.NoError(t, err)
		_, err = store.Save(context.Background(), nil, "")
		assert.ErrorIs(t, err, upload.ErrNilFile)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = store.Save(ctx, fileUpload("a.txt", "", "a"), "")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ping", func(t *testing.T) {
		t.Parallel()
		store, err := upload.NewLocalStore(t.TempDir(), "")
		require.NoError(t, err)
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("empty base dir", func(t *testing.T) {
		t.Parallel()
		_, err := upload.NewLocalStore("", "")
		assert.ErrorIs(t, err, upload.ErrInvalidConfig)
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"../../../etc/passwd": "passwd",
		`C:\Windows\file.txt`: "file.txt",
		"":                    "unnamed",
		"..":                  "unnamed",
		"report\x00.pdf":      "report.pdf",
		"photo.jpeg":          "photo.jpeg",
	}
	for in, want := range tests {
		assert.Equal(t, want, upload.SanitizeFilename(in), in)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	store, err := upload.New(context.Background(), upload.Config{Driver: "local", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &upload.LocalStore{}, store)

	_, err = upload.New(context.Background(), upload.Config{Driver: "ftp"})
	assert.ErrorIs(t, err, upload.ErrUnknownDriver)

	_, err = upload.New(context.Background(), upload.Config{Driver: "s3"})
	assert.ErrorIs(t, err, upload.ErrInvalidConfig)
}
