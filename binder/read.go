package binder

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
)

const (
	// DefaultMaxBodySize bounds JSON and urlencoded bodies.
	DefaultMaxBodySize int64 = 1 << 20
	// DefaultMaxMemory bounds multipart bodies, files included.
	DefaultMaxMemory int64 = 10 << 20
)

// Option tunes body limits.
type Option func(*options)

type options struct {
	maxBodySize int64
	maxMemory   int64
}

func newOptions(opts []Option) options {
	o := options{maxBodySize: DefaultMaxBodySize, maxMemory: DefaultMaxMemory}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxBodySize sets the limit for JSON and urlencoded bodies.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithMaxMemory sets the limit for multipart bodies.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMemory = n
		}
	}
}

// MediaType returns the request media type without parameters.
func MediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mt
}

// IsMultipart reports whether the request carries multipart/form-data.
func IsMultipart(r *http.Request) bool {
	return MediaType(r) == "multipart/form-data"
}

// Read decodes a JSON, urlencoded or multipart body into an Input.
func Read(r *http.Request, opts ...Option) (Input, error) {
	switch mt := MediaType(r); mt {
	case "application/json":
		return ReadJSON(r, opts...)
	case "application/x-www-form-urlencoded":
		return ReadForm(r, opts...)
	case "multipart/form-data":
		return ReadMultipart(r, opts...)
	case "":
		return nil, fmt.Errorf("%w: expected application/json, application/x-www-form-urlencoded or multipart/form-data", ErrMissingContentType)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
	}
}

// ReadJSON decodes a JSON object body. A body that is empty, not an object
// or followed by trailing data is rejected.
func ReadJSON(r *http.Request, opts ...Option) (Input, error) {
	o := newOptions(opts)
	raw, err := readLimited(r.Body, o.maxBodySize)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	var in map[string]any
	if err := sonic.ConfigStd.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if in == nil {
		return nil, fmt.Errorf("%w: body must be an object", ErrInvalidJSON)
	}
	return Input(in), nil
}

// ReadForm decodes an urlencoded body. When a key repeats the last value wins.
func ReadForm(r *http.Request, opts ...Option) (Input, error) {
	o := newOptions(opts)
	raw, err := readLimited(r.Body, o.maxBodySize)
	if err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	in := make(Input, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			in[k] = vs[len(vs)-1]
		}
	}
	return in, nil
}

// ReadMultipart streams every part of a multipart body into an Input. File
// parts become *FileUpload, other parts strings. Parts without a name are
// skipped and the last part wins when a name repeats. Keys are kept as sent,
// so bracket-notated names such as "address[city]" are not expanded.
func ReadMultipart(r *http.Request, opts ...Option) (Input, error) {
	o := newOptions(opts)
	r.Body = http.MaxBytesReader(nil, r.Body, o.maxMemory)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	in := make(Input)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapBodyErr(ErrInvalidForm, err)
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, wrapBodyErr(ErrInvalidForm, err)
		}

		if part.FileName() == "" {
			in[name] = string(content)
			continue
		}
		in[name] = &FileUpload{
			Filename: cleanFilename(part.FileName()),
			Size:     int64(len(content)),
			Header:   part.Header,
			Content:  content,
		}
	}
	return in, nil
}

func readLimited(body io.Reader, limit int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, limit)
	}
	return raw, nil
}

func wrapBodyErr(kind, err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
