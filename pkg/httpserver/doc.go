// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, health probes and slog logging.
//
// Run binds the listener, runs start hooks, serves until the context is
// cancelled or an interrupt or TERM signal arrives, and then shuts down
// within the configured deadline:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	mux.Handle("GET /healthz", httpserver.HealthHandler(log, 2*time.Second,
//		httpserver.Check{Name: "uploads", Fn: store.Ping},
//	))
//	if err := srv.Run(ctx, mux); err != nil {
//		return err
//	}
//
// Failures are wrapped with ErrStart and ErrShutdown for errors.Is checks.
package httpserver
