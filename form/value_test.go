package form_test

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/form"
)

func TestValueOf(t *testing.T) {
	t.Parallel()

	t.Run("scalars", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, form.Scalar{V: "x"}, form.ValueOf("x"))
		assert.Equal(t, form.Scalar{V: 3}, form.ValueOf(3))
		assert.Equal(t, form.Scalar{V: true}, form.ValueOf(true))
		assert.Equal(t, form.Null{}, form.ValueOf(nil))
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()
		v := form.ValueOf(map[string]any{
			"tags":    []string{"a", "b"},
			"address": map[string]any{"city": "Oslo"},
			"ids":     []int{1, 2},
		})
		m, ok := v.(form.Map)
		require.True(t, ok)
		assert.Equal(t, form.List{form.Scalar{V: "a"}, form.Scalar{V: "b"}}, m["tags"])
		assert.Equal(t, form.Map{"city": form.Scalar{V: "Oslo"}}, m["address"])
		assert.Equal(t, form.List{form.Scalar{V: 1}, form.Scalar{V: 2}}, m["ids"])
	})

	t.Run("bytes become a file", func(t *testing.T) {
		t.Parallel()
		v := form.ValueOf([]byte("hello"))
		f, ok := v.(*form.File)
		require.True(t, ok)
		assert.Equal(t, "blob", f.Name)
		assert.Equal(t, int64(5), f.Size())
		assert.Equal(t, form.KindBinary, v.Kind())
	})

	t.Run("nil pointer is null", func(t *testing.T) {
		t.Parallel()
		var s *string
		assert.Equal(t, form.Null{}, form.ValueOf(s))
	})
}

func TestScalarString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1.5", form.Scalar{V: 1.5}.String())
	assert.Equal(t, "10", form.Scalar{V: float64(10)}.String())
	assert.Equal(t, "false", form.Scalar{V: false}.String())
	assert.Equal(t, "7", form.Scalar{V: 7}.String())
}

func TestContainsBinary(t *testing.T) {
	t.Parallel()
	file := form.NewFile("a.png", []byte{0x89, 'P', 'N', 'G'})

	assert.False(t, form.ContainsBinary(form.Map{"email": form.Scalar{V: "a@b.com"}}))
	assert.True(t, form.ContainsBinary(form.Map{"avatar": file}))
	assert.True(t, form.ContainsBinary(form.Map{
		"gallery": form.List{form.Null{}, form.Map{"image": file}},
	}))
	assert.False(t, form.ContainsBinary(form.Null{}))
}

func TestNewFile(t *testing.T) {
	t.Parallel()
	f := form.NewFile("avatar.png", []byte("not really a png"))
	assert.Equal(t, "image/png", f.ContentType)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(data))
}

func TestOpenFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	f, err := form.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.json", f.Name)
	assert.Equal(t, int64(3), f.Size())
	assert.Equal(t, "application/json", f.ContentType)

	_, err = form.OpenFile(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, form.ErrFileUnavailable)

	_, err = form.OpenFile(dir)
	require.ErrorIs(t, err, form.ErrFileUnavailable)
}

func TestFlatten(t *testing.T) {
	t.Parallel()
	file := form.NewFile("cv.pdf", []byte("%PDF"))

	got := form.Flatten(form.Map{
		"a":      form.ValueOf(map[string]any{"b": []any{1, 2}}),
		"skip":   form.Null{},
		"resume": file,
		"user":   form.ValueOf(map[string]any{"name": "Ann", "tags": []string{"x"}}),
	})

	want := []form.Entry{
		{Key: "a[b][0]", Value: "1"},
		{Key: "a[b][1]", Value: "2"},
		{Key: "resume", File: file},
		{Key: "user[name]", Value: "Ann"},
		{Key: "user[tags][0]", Value: "x"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(form.File{})); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenQuery(t *testing.T) {
	t.Parallel()
	entries := form.Flatten(form.Map{
		"q":      form.Scalar{V: "go forms"},
		"filter": form.ValueOf(map[string]any{"tags": []string{"a", "b"}}),
	})
	q := url.Values{}
	for _, e := range entries {
		q.Add(e.Key, e.Value)
	}
	assert.Equal(t, "filter%5Btags%5D%5B0%5D=a&filter%5Btags%5D%5B1%5D=b&q=go+forms", q.Encode())
}
