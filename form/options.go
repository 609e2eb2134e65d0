package form

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Option configures a Form.
type Option func(*Form)

// WithHTTPClient sets the client used for submissions. Nil is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Form) {
		if c != nil {
			f.client = c
		}
	}
}

// WithBaseURL resolves relative submission URLs against base.
func WithBaseURL(base string) Option {
	return func(f *Form) {
		f.baseURL = strings.TrimSpace(base)
	}
}

// WithDefaultHeader adds a header sent with every submission.
func WithDefaultHeader(key, value string) Option {
	return func(f *Form) {
		f.headers.Add(key, value)
	}
}

// WithDefaultTimeout bounds every submission that does not set its own timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// ClientConfig holds environment-driven client settings.
type ClientConfig struct {
	BaseURL string        `env:"FORMKIT_BASE_URL"`                 // BaseURL resolves relative submission URLs.
	Timeout time.Duration `env:"FORMKIT_TIMEOUT" envDefault:"30s"` // Timeout bounds each submission.
}

// NewFromConfig creates a Form from a ClientConfig.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg ClientConfig, initial map[string]any, opts ...Option) *Form {
	configOpts := make([]Option, 0, 2+len(opts))
	if cfg.BaseURL != "" {
		configOpts = append(configOpts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		configOpts = append(configOpts, WithDefaultTimeout(cfg.Timeout))
	}
	configOpts = append(configOpts, opts...)
	return New(initial, configOpts...)
}

// SubmitOption configures a single submission.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	onSuccess   func(*Response)
	onError     func(error)
	onFinish    func()
	onProgress  func(int)
	headers     http.Header
	timeout     time.Duration
	credentials bool
	editors     []func(*http.Request) error
}

func newSubmitConfig(opts []SubmitOption) *submitConfig {
	cfg := &submitConfig{
		headers:     make(http.Header),
		credentials: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// OnSuccess is called with the decoded response of a 2xx submission.
func OnSuccess(fn func(*Response)) SubmitOption {
	return func(c *submitConfig) { c.onSuccess = fn }
}

// OnError is called with *HTTPError, *NetworkError, ErrTimeout or a request
// building error. It is not called when the submission is aborted.
func OnError(fn func(error)) SubmitOption {
	return func(c *submitConfig) { c.onError = fn }
}

// OnFinish is called exactly once after every submission, whatever the outcome.
func OnFinish(fn func()) SubmitOption {
	return func(c *submitConfig) { c.onFinish = fn }
}

// OnProgress is called with the upload percentage during multipart submissions
// whose size is known.
func OnProgress(fn func(percent int)) SubmitOption {
	return func(c *submitConfig) { c.onProgress = fn }
}

// WithHeader adds a request header.
func WithHeader(key, value string) SubmitOption {
	return func(c *submitConfig) { c.headers.Add(key, value) }
}

// WithHeaders adds all given request headers.
func WithHeaders(h http.Header) SubmitOption {
	return func(c *submitConfig) {
		for k, vs := range h {
			for _, v := range vs {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithTimeout bounds the submission. Expiry is reported as ErrTimeout.
func WithTimeout(d time.Duration) SubmitOption {
	return func(c *submitConfig) { c.timeout = d }
}

// WithCredentials controls whether the client's cookie jar is used.
// Enabled by default.
func WithCredentials(enabled bool) SubmitOption {
	return func(c *submitConfig) { c.credentials = enabled }
}

// WithRequestEditor registers a hook that can modify the outgoing request.
// An error returned by the hook is reported to OnError.
func WithRequestEditor(fn func(*http.Request) error) SubmitOption {
	return func(c *submitConfig) {
		if fn != nil {
			c.editors = append(c.editors, fn)
		}
	}
}
