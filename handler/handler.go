package handler

import (
	"net/http"

	"github.com/dmitrymomot/formkit/binder"
)

// HandlerFunc handles a request already decoded into R.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to the client.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes a request into v, a pointer to the handler's request type.
type Bind func(r *http.Request, v any) error

// ErrorHandler renders errors returned by binders or responses.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. The first decorator given to Wrap is the
// outermost.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
}

// WithBinder replaces the binders with b.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if b != nil {
			c.binders = []Bind{b}
		}
	}
}

// WithBinders appends binders, applied in order.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory builds a custom context type for each request.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators adds decorators around the handler.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// BindInput decodes any supported body into the request struct with
// binder.Decode. Requests without a body are left untouched.
func BindInput(opts ...binder.Option) Bind {
	return func(r *http.Request, v any) error {
		if r.ContentLength == 0 && r.Header.Get("Content-Type") == "" {
			return nil
		}
		in, err := binder.Read(r, opts...)
		if err != nil {
			return err
		}
		return binder.Decode(in, v)
	}
}

// Wrap converts a typed handler into an http.HandlerFunc. Without options
// the body is decoded with BindInput and errors are rendered as JSON by
// NewErrorHandler using slog.Default.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		binders:      []Bind{BindInput()},
		errorHandler: NewErrorHandler[C](nil),
		contextFactory: func(w http.ResponseWriter, r *http.Request) C {
			c, ok := NewContext(w, r).(C)
			if !ok {
				panic("handler: custom context type requires WithContextFactory")
			}
			return c
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := final(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

// Validated wraps a handler whose request type is produced by a Validator.
// The body is read with ReadValidatedInput; a validation failure never
// reaches h and is rendered as 422 by the error handler.
//
//	http.Handle("/users", handler.Validated(createUser, validateUser))
func Validated[C Context, T any](h HandlerFunc[C, T], validate Validator[T], opts ...WrapOption[C, T]) http.HandlerFunc {
	bind := func(r *http.Request, v any) error {
		res, err := ReadValidatedInput(r, validate)
		if err != nil {
			return err
		}
		if !res.OK() {
			return res.Failure
		}
		*(v.(*T)) = res.Data
		return nil
	}
	return Wrap(h, append([]WrapOption[C, T]{WithBinder[C, T](bind)}, opts...)...)
}
