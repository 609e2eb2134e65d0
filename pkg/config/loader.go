package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option customizes how a configuration struct is parsed.
type Option func(*options)

type options struct {
	prefix   string
	envFiles []string
	environ  map[string]string
}

// WithPrefix prepends prefix to every variable name, e.g. "FORMKIT_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles reads variables from dotenv files. Process variables win over
// file values, and earlier files win over later ones.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = append(o.envFiles, files...) }
}

// WithEnvironment replaces the process environment as the variable source.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) { o.environ = environ }
}

// Parse builds a T from the environment without caching.
//
//	type ServerConfig struct {
//		Addr    string        `env:"ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
//	}
//
//	cfg, err := config.Parse[ServerConfig](config.WithPrefix("FORMKIT_"), config.WithEnvFiles(".env"))
func Parse[T any](opts ...Option) (T, error) {
	var out T
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	environ := o.environ
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}
	if len(o.envFiles) > 0 {
		merged := make(map[string]string, len(environ))
		for _, file := range o.envFiles {
			values, err := godotenv.Read(file)
			if err != nil {
				return out, fmt.Errorf("%w: %s: %v", ErrEnvFile, file, err)
			}
			for k, v := range values {
				if _, ok := merged[k]; !ok {
					merged[k] = v
				}
			}
		}
		for k, v := range environ {
			merged[k] = v
		}
		environ = merged
	}

	if err := env.ParseWithOptions(&out, env.Options{
		Prefix:      o.prefix,
		Environment: environ,
	}); err != nil {
		return out, errors.Join(ErrParsingConfig, err)
	}
	return out, nil
}

// configCache stores one parsed value per configuration type.
type configCache struct {
	mu     sync.Mutex
	values map[string]any
}

var (
	globalCache = &configCache{values: make(map[string]any)}

	defaultEnvLoaded sync.Once
)

// Load parses the environment into v, once per configuration type for the
// lifetime of the process. The default .env file is loaded into the process
// environment on first use when it exists.
//
// Example:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	if cached, ok := globalCache.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	parsed, err := Parse[T](opts...)
	if err != nil {
		return err
	}
	globalCache.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// ResetCache drops every cached configuration.
func ResetCache() {
	globalCache.mu.Lock()
	globalCache.values = make(map[string]any)
	globalCache.mu.Unlock()
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}
