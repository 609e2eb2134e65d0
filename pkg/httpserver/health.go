package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Check is a named readiness probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler returns a handler usable for both liveness and readiness probes.
//
// Without checks it answers 200 {"status":"ok"}. With checks every probe
// runs with the request context bounded by timeout; any failure answers 503
// with {"status":"unavailable","checks":{"<name>":"failed"}}. Failure details
// are logged, never returned.
func HealthHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		body := healthBody{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			body.Checks = make(map[string]string, len(checks))
		}
		for _, c := range checks {
			if err := c.Fn(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", slog.String("check", c.Name), logger.Error(err))
				body.Checks[c.Name] = "failed"
				body.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[c.Name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = sonic.ConfigStd.NewEncoder(w).Encode(body)
	}
}
