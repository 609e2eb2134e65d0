package binder

import (
	"fmt"
	"sort"
	"strconv"
)

// Input is a decoded request body keyed by field name.
//
// Values read from a JSON body keep their JSON types (string, float64, bool,
// nil, []any, map[string]any). Values read from urlencoded or multipart
// bodies are strings, and file parts are *FileUpload.
type Input map[string]any

// Keys returns the field names in sorted order.
func (in Input) Keys() []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the field is present, even when its value is null.
func (in Input) Has(key string) bool {
	_, ok := in[key]
	return ok
}

// String returns the field as text. Numbers and booleans are formatted;
// files, lists and objects report false.
func (in Input) String(key string) (string, bool) {
	switch v := in[key].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case fmt.Stringer:
		if _, isFile := v.(*FileUpload); isFile {
			return "", false
		}
		return v.String(), true
	}
	return "", false
}

// File returns the uploaded file for the field, or nil.
func (in Input) File(key string) *FileUpload {
	f, _ := in[key].(*FileUpload)
	return f
}

// Files returns every uploaded file keyed by field name.
func (in Input) Files() map[string]*FileUpload {
	out := make(map[string]*FileUpload)
	for k, v := range in {
		if f, ok := v.(*FileUpload); ok {
			out[k] = f
		}
	}
	return out
}
