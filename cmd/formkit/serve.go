package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formkit/handler"
	"github.com/dmitrymomot/formkit/modules/playground"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/metrics"
	"github.com/dmitrymomot/formkit/pkg/requestid"
	"github.com/dmitrymomot/formkit/pkg/schema"
	"github.com/dmitrymomot/formkit/pkg/upload"
)

// serveConfig is the environment of the serve command.
type serveConfig struct {
	Log        logger.Config
	HTTP       httpserver.Config
	Upload     upload.Config
	Playground playground.Config

	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT" envDefault:"3s"`
}

var serveSchema string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playground form server",
	Long: `Start an HTTP server with:

  POST /users   playground signup form
  GET  /healthz readiness probe (upload store)
  GET  /metrics Prometheus metrics

Configuration is read from the environment (HTTP_*, UPLOAD_*, LOG_*,
PLAYGROUND_*).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServeConfig()
		if err != nil {
			return err
		}
		if serveSchema != "" {
			cfg.Playground.SchemaFile = serveSchema
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSchema, "schema", "", "JSON Schema file (JSON or YAML) replacing the built-in signup rules")
	rootCmd.AddCommand(serveCmd)
}

func loadServeConfig() (serveConfig, error) {
	var opts []config.Option
	if envFile != "" {
		opts = append(opts, config.WithEnvFiles(envFile))
	}
	return config.Parse[serveConfig](opts...)
}

func runServe(ctx context.Context, cfg serveConfig) error {
	log, err := logger.NewFromConfig(cfg.Log, logger.WithContextExtractors(requestid.LoggerExtractor()))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h, err := newServeHandler(ctx, cfg, log, reg)
	if err != nil {
		log.ErrorContext(ctx, "failed to build server", logger.Error(err))
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, h)
}

// newServeHandler wires the upload store, metrics and playground module into
// a single router.
func newServeHandler(ctx context.Context, cfg serveConfig, log *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	store, err := upload.New(ctx, cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("upload store: %w", err)
	}

	collector := metrics.New(reg)
	opts := []playground.Option{
		playground.WithLogger(log),
		playground.WithAvatarDir(cfg.Playground.AvatarDir),
		playground.WithErrorHandler(handler.NewErrorHandler[handler.Context](log,
			handler.WithIssueObserver(collector.ObserveIssues),
		)),
	}
	if cfg.Playground.SchemaFile != "" {
		s, err := schema.LoadFile(cfg.Playground.SchemaFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, playground.WithValidator(schema.Decode[playground.SignupRequest](s)))
		log.InfoContext(ctx, "using json schema validator", slog.String("schema", cfg.Playground.SchemaFile))
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthHandler(log, cfg.HealthTimeout, httpserver.Check{
		Name: "uploads",
		Fn:   store.Ping,
	}))
	r.Handle("/metrics", metrics.Handler(reg))

	// Local uploads are served back under their relative base URL.
	if local, ok := store.(*upload.LocalStore); ok && strings.HasPrefix(cfg.Upload.BaseURL, "/") {
		prefix := "/" + strings.Trim(cfg.Upload.BaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(local.Dir()))))
	}

	r.Mount("/", playground.Router(playground.RouterOptions{
		Signup:      playground.NewSignupService(store, opts...),
		Middlewares: []func(http.Handler) http.Handler{collector.Middleware},
	}))
	return r, nil
}
