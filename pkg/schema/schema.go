package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/binder"
)

const resourceURL = "formkit://schema.json"

// MessagesKeyword is the schema keyword holding custom messages for the
// keywords of a subschema:
//
//	password:
//	  type: string
//	  minLength: 8
//	  x-messages:
//	    minLength: Password must be at least 8 characters
//	    required: Password is required
const MessagesKeyword = "x-messages"

var (
	// ErrInvalidSchema is returned when a schema document cannot be parsed or compiled.
	ErrInvalidSchema = errors.New("schema: invalid schema")

	quotedName = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)
)

// Schema is a compiled JSON Schema for request bodies.
type Schema struct {
	compiled *jsonschema.Schema
	doc      any
}

// Compile parses a JSON or YAML schema document and compiles it as draft 2020-12.
// Formats such as "email" and "uri" are asserted.
func Compile(data []byte) (*Schema, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	doc = normalize(doc)
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: document must be an object", ErrInvalidSchema)
	}

	raw, err := sonic.ConfigStd.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(resourceURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return &Schema{compiled: compiled, doc: doc}, nil
}

// LoadFile reads and compiles a schema file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Compile(data)
}

// MustCompile is like Compile but panics on error.
func MustCompile(data []byte) *Schema {
	s, err := Compile(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks the input against the schema and returns *Failure when it
// does not conform. Uploaded files are presented to the schema as objects
// with "filename", "size" and "contentType" properties.
func (s *Schema) Validate(in binder.Input) error {
	err := s.compiled.Validate(Instance(in))
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema: validate: %w", err)
	}

	f := &Failure{}
	s.collect(verr, f)
	slices.SortStableFunc(f.errs, func(a, b formkit.ValidationError) int {
		return strings.Compare(a.Field.String(), b.Field.String())
	})
	return f
}

// Decode returns a function that validates the input and decodes it into T
// with binder.Decode. It can be passed to handler.Validated.
func Decode[T any](s *Schema) func(binder.Input) (T, error) {
	return func(in binder.Input) (T, error) {
		var out T
		if err := s.Validate(in); err != nil {
			return out, err
		}
		if err := binder.Decode(in, &out); err != nil {
			return out, err
		}
		return out, nil
	}
}

// Instance converts a request input into a JSON Schema instance.
func Instance(in binder.Input) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = instanceValue(v)
	}
	return out
}

func instanceValue(v any) any {
	switch x := v.(type) {
	case *binder.FileUpload:
		if x == nil {
			return nil
		}
		return map[string]any{
			"filename":    x.Filename,
			"size":        float64(x.Size),
			"contentType": x.ContentType(),
		}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = instanceValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = instanceValue(e)
		}
		return out
	}
	return v
}

func (s *Schema) collect(err *jsonschema.ValidationError, f *Failure) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			s.collect(cause, f)
		}
		return
	}

	instance := pointerPath(err.InstanceLocation)
	keywordPath := splitPointer(err.KeywordLocation)
	keyword := ""
	if n := len(keywordPath); n > 0 {
		keyword = keywordPath[n-1]
		keywordPath = keywordPath[:n-1]
	}

	if keyword == "required" {
		for _, name := range missingProperties(err.Message) {
			field := append(slices.Clone(instance), formkit.Key(name))
			msg := s.message(append(slices.Clone(keywordPath), "properties", name), "required")
			if msg == "" {
				msg = s.message(keywordPath, "required")
			}
			if msg == "" {
				msg = "Required"
			}
			f.errs.Add(field, msg)
		}
		return
	}

	msg := s.message(keywordPath, keyword)
	if msg == "" {
		msg = err.Message
	}
	f.errs.Add(instance, msg)
}

// message looks up a custom message for keyword in the subschema at path.
func (s *Schema) message(path []string, keyword string) string {
	node := s.doc
	for _, tok := range path {
		switch n := node.(type) {
		case map[string]any:
			node = n[tok]
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(n) {
				return ""
			}
			node = n[i]
		default:
			return ""
		}
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	messages, ok := obj[MessagesKeyword].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := messages[keyword].(string)
	return msg
}

func missingProperties(message string) []string {
	matches := quotedName.FindAllStringSubmatch(message, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.ReplaceAll(m[1], `\'`, `'`))
	}
	return names
}

func splitPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
	}
	return parts
}

func pointerPath(ptr string) formkit.Path {
	tokens := splitPointer(ptr)
	p := make(formkit.Path, 0, len(tokens))
	for _, tok := range tokens {
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 && strconv.Itoa(i) == tok {
			p = append(p, formkit.Index(i))
			continue
		}
		p = append(p, formkit.Key(tok))
	}
	return p
}

// normalize converts YAML maps with non-string keys into JSON objects.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	}
	return v
}
