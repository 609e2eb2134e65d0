package form

import (
	"log/slog"
	"maps"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/dmitrymomot/formkit"
)

// Form holds field values, per-field error messages and submission status.
//
// All methods are safe to call from multiple goroutines, but overlapping
// submissions are not coordinated: each one flips Processing and Progress
// independently and their callbacks may interleave.
type Form struct {
	mu sync.RWMutex

	fields   []string
	values   Map
	original Map
	errors   map[string]string

	processing  bool
	success     bool
	progress    int
	hasProgress bool

	listeners    map[int]Listener
	nextListener int

	client  *http.Client
	baseURL string
	headers http.Header
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a form from an initial snapshot of field values.
// Values are converted with ValueOf; the snapshot is deep-copied and kept
// for Reset. Fields are ordered by name.
func New(initial map[string]any, opts ...Option) *Form {
	f := &Form{
		values:    make(Map, len(initial)),
		original:  make(Map, len(initial)),
		errors:    make(map[string]string),
		listeners: make(map[int]Listener),
		client:    http.DefaultClient,
		headers:   make(http.Header),
		logger:    slog.New(slog.DiscardHandler),
	}

	for name, v := range initial {
		val := ValueOf(v)
		f.values[name] = clone(val)
		f.original[name] = clone(val)
		f.fields = append(f.fields, name)
	}
	sort.Strings(f.fields)

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fields returns the field names in submission order.
func (f *Form) Fields() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.fields))
	copy(out, f.fields)
	return out
}

// Get returns the current value of a field, or Null when it is unknown.
func (f *Form) Get(field string) Value {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[field]
	if !ok {
		return Null{}
	}
	return clone(v)
}

// Set replaces a field value. Unknown fields are appended.
func (f *Form) Set(field string, v any) {
	f.mu.Lock()
	f.setLocked(field, ValueOf(v))
	f.mu.Unlock()
	f.notify(Event{Kind: EventValues, Fields: []string{field}})
}

func (f *Form) setLocked(field string, v Value) {
	if _, ok := f.values[field]; !ok {
		f.fields = append(f.fields, field)
	}
	f.values[field] = clone(v)
}

// Values returns a deep copy of all field values.
func (f *Form) Values() Map {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return clone(f.values).(Map)
}

// Transform merges the fields returned by fn into the current values and
// returns the form so a submission can be chained:
//
//	f.Transform(func(v form.Map) form.Map {
//		return form.Map{"email": form.Scalar{V: strings.ToLower(v["email"].(form.Scalar).String())}}
//	}).Post(ctx, "/users")
func (f *Form) Transform(fn func(Map) Map) *Form {
	if fn == nil {
		return f
	}
	patch := fn(f.Values())
	if len(patch) == 0 {
		return f
	}

	changed := make([]string, 0, len(patch))
	f.mu.Lock()
	for _, name := range patch.Keys() {
		f.setLocked(name, patch[name])
		changed = append(changed, name)
	}
	f.mu.Unlock()

	f.notify(Event{Kind: EventValues, Fields: changed})
	return f
}

// Errors returns the non-empty error messages keyed by field path.
func (f *Form) Errors() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.errors))
	for k, msg := range f.errors {
		if msg != "" {
			out[k] = msg
		}
	}
	return out
}

// Error returns the message for a field, or "".
func (f *Form) Error(field string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errors[field]
}

// HasErrors reports whether any field has a message.
func (f *Form) HasErrors() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, msg := range f.errors {
		if msg != "" {
			return true
		}
	}
	return false
}

// SetError sets the message for one field. Nested fields use dot-joined
// paths such as "address.city".
func (f *Form) SetError(field, message string) {
	f.mu.Lock()
	f.errors[field] = message
	f.mu.Unlock()
	f.notify(Event{Kind: EventErrors, Fields: []string{field}})
}

// ResetErrors clears every message. Keys are kept with an empty message.
func (f *Form) ResetErrors() {
	f.mu.Lock()
	f.resetErrorsLocked()
	f.mu.Unlock()
	f.notify(Event{Kind: EventErrors})
}

func (f *Form) resetErrorsLocked() {
	for k := range f.errors {
		f.errors[k] = ""
	}
}

// SetErrorsFromValidation replaces all messages with the given field errors.
func (f *Form) SetErrorsFromValidation(errs []formkit.ValidationError) {
	fields := make([]string, 0, len(errs))
	f.mu.Lock()
	f.resetErrorsLocked()
	for _, e := range errs {
		key := e.Field.String()
		f.errors[key] = e.Message
		fields = append(fields, key)
	}
	f.mu.Unlock()
	f.notify(Event{Kind: EventErrors, Fields: fields})
}

// Reset restores the named fields, or every field when none are named, from
// the initial snapshot. A field currently holding a *File is set to Null:
// file payloads are never restored. Fields missing from the snapshot become
// Null.
func (f *Form) Reset(fields ...string) {
	f.mu.Lock()
	if len(fields) == 0 {
		fields = make([]string, len(f.fields))
		copy(fields, f.fields)
	}
	for _, name := range fields {
		if _, isFile := f.values[name].(*File); isFile {
			f.setLocked(name, Null{})
			continue
		}
		orig, ok := f.original[name]
		if !ok {
			f.setLocked(name, Null{})
			continue
		}
		f.setLocked(name, orig)
	}
	f.mu.Unlock()
	f.notify(Event{Kind: EventValues, Fields: fields})
}

// Processing reports whether a submission is in flight.
func (f *Form) Processing() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.processing
}

// Succeeded reports whether the last finished submission succeeded.
func (f *Form) Succeeded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.success
}

// Progress returns the upload progress in percent. ok is false when no
// multipart upload with a known size is in flight.
func (f *Form) Progress() (percent int, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.progress, f.hasProgress
}

// Header returns a copy of the default request headers.
func (f *Form) Header() http.Header {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return maps.Clone(f.headers)
}
