package form

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
)

// encoder turns form values into a request body and/or query string.
type encoder interface {
	name() string
	// progress reports whether the encoder produces a sized body that can
	// be tracked while it is sent.
	progress() bool
	encode(method string, u *url.URL, order []string, values Map) (body []byte, contentType string, err error)
}

// selectEncoder picks the multipart encoder when any value holds a file.
func selectEncoder(values Map) encoder {
	if ContainsBinary(values) {
		return multipartEncoder{}
	}
	return jsonEncoder{}
}

// jsonEncoder sends values as a JSON body, or as query parameters for GET.
type jsonEncoder struct{}

func (jsonEncoder) name() string   { return "json" }
func (jsonEncoder) progress() bool { return false }

func (jsonEncoder) encode(method string, u *url.URL, order []string, values Map) ([]byte, string, error) {
	if method == http.MethodGet {
		appendQuery(u, flattenFields(order, values))
		return nil, "", nil
	}
	body, err := sonic.Marshal(Interface(values))
	if err != nil {
		return nil, "", fmt.Errorf("%w: encode json body: %v", ErrInvalidRequest, err)
	}
	return body, "application/json", nil
}

// multipartEncoder sends values as multipart/form-data with bracket-notated
// keys, or as query parameters for GET and DELETE.
type multipartEncoder struct{}

func (multipartEncoder) name() string   { return "multipart" }
func (multipartEncoder) progress() bool { return true }

func (multipartEncoder) encode(method string, u *url.URL, order []string, values Map) ([]byte, string, error) {
	entries := flattenFields(order, values)
	if method == http.MethodGet || method == http.MethodDelete {
		appendQuery(u, entries)
		return nil, "", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, e := range entries {
		if e.File == nil {
			if err := mw.WriteField(e.Key, e.Value); err != nil {
				return nil, "", fmt.Errorf("%w: write field %s: %v", ErrInvalidRequest, e.Key, err)
			}
			continue
		}
		if err := writeFilePart(mw, e.Key, e.File); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: close multipart body: %v", ErrInvalidRequest, err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, key string, f *File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(key), quoteEscaper.Replace(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("%w: create part %s: %v", ErrInvalidRequest, key, err)
	}
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileUnavailable, f.Name, err)
	}
	defer func() { _ = src.Close() }()
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileUnavailable, f.Name, err)
	}
	return nil
}

// progressReader reports the share of the body consumed by the transport.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.sent += int64(n)
		pct := percent(p.sent, p.total)
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

func percent(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(sent) / float64(total) * 100))
}

// Response is a decoded 2xx response.
// Data holds the JSON-decoded body, or the raw text when it is not JSON.
type Response struct {
	StatusCode int
	Header     http.Header
	Data       any
	Raw        []byte
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	return sonic.Unmarshal(r.Raw, v)
}

// parseBody decodes JSON, falling back to the raw text.
func parseBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
