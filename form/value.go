package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindBinary
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindBinary:
		return "binary"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a form field value. The set of implementations is closed:
// Null, Scalar, *File, List and Map.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is an absent value. Null leaves are omitted from multipart bodies.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) sealed()    {}

// Scalar holds a string, bool or number.
type Scalar struct {
	V any
}

func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) sealed()    {}

// String renders the scalar the way it is sent in form and query encodings.
func (s Scalar) String() string {
	switch v := s.V.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return KindList }
func (List) sealed()    {}

// Map is a set of named values.
type Map map[string]Value

func (Map) Kind() Kind { return KindMap }
func (Map) sealed()    {}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// File is a binary payload sent as a multipart file part.
type File struct {
	Name        string
	ContentType string

	size int64
	open func() (io.ReadCloser, error)
}

func (*File) Kind() Kind { return KindBinary }
func (*File) sealed()    {}

// NewFile wraps in-memory content. The content type is derived from the
// file extension, falling back to content sniffing.
func NewFile(name string, data []byte) *File {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &File{
		Name:        name,
		ContentType: ct,
		size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// OpenFile references a file on disk. Its content is read lazily on each
// submission.
func OpenFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileUnavailable, path)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &File{
		Name:        filepath.Base(path),
		ContentType: ct,
		size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Size returns the payload length in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Open returns a reader over the payload.
func (f *File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return f.open()
}

// ValueOf converts a plain Go value into a Value.
// []byte becomes an anonymous *File, like a blob.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Scalar{V: t}
	case []byte:
		return NewFile("blob", t)
	case []any:
		l := make(List, len(t))
		for i, e := range t {
			l[i] = ValueOf(e)
		}
		return l
	case []string:
		l := make(List, len(t))
		for i, e := range t {
			l[i] = Scalar{V: e}
		}
		return l
	case map[string]any:
		m := make(Map, len(t))
		for k, e := range t {
			m[k] = ValueOf(e)
		}
		return m
	case map[string]string:
		m := make(Map, len(t))
		for k, e := range t {
			m[k] = Scalar{V: e}
		}
		return m
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		l := make(List, rv.Len())
		for i := range rv.Len() {
			l[i] = ValueOf(rv.Index(i).Interface())
		}
		return l
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = ValueOf(iter.Value().Interface())
		}
		return m
	}
	return Scalar{V: v}
}

// Interface converts a Value back into plain Go values suitable for JSON
// encoding. Files become their name.
func Interface(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Scalar:
		return t.V
	case *File:
		return t.Name
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Interface(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Interface(e)
		}
		return out
	}
	return nil
}

// ContainsBinary reports whether a *File appears anywhere inside v.
func ContainsBinary(v Value) bool {
	switch t := v.(type) {
	case *File:
		return true
	case List:
		for _, e := range t {
			if ContainsBinary(e) {
				return true
			}
		}
	case Map:
		for _, e := range t {
			if ContainsBinary(e) {
				return true
			}
		}
	}
	return false
}

// clone deep-copies lists and maps. Scalars and files are immutable and shared.
func clone(v Value) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case List:
		out := make(List, len(t))
		for i, e := range t {
			out[i] = clone(e)
		}
		return out
	case Map:
		out := make(Map, len(t))
		for k, e := range t {
			out[k] = clone(e)
		}
		return out
	default:
		return v
	}
}
