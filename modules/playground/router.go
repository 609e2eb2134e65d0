package playground

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable is a module that can be mounted into the application router.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions lists the modules served under the root router.
type RouterOptions struct {
	Signup      Mountable
	Middlewares []func(http.Handler) http.Handler
}

// Router mounts the playground modules.
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(opts.Middlewares...)
	if opts.Signup != nil {
		r.Mount("/", opts.Signup.Handle())
	}
	return r
}
