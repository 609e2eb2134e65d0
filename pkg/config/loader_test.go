package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/config"
)

type serverConfig struct {
	Name    string        `env:"NAME" envDefault:"formkit"`
	Port    int           `env:"PORT" envDefault:"8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Tags    []string      `env:"TAGS" envSeparator:","`
	Extra   string        `env:"EXTRA"`
}

type requiredConfig struct {
	Secret string `env:"SECRET,required"`
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Parse[serverConfig](config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, "formkit", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Parse[serverConfig](
			config.WithPrefix("FK_"),
			config.WithEnvironment(map[string]string{"FK_PORT": "9090", "PORT": "1"}),
		)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("env files", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Parse[serverConfig](
			config.WithPrefix("FK_"),
			config.WithEnvFiles("testdata/.env.test", "testdata/.env.second"),
			config.WithEnvironment(map[string]string{"FK_PORT": "7000"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "from_file", cfg.Name)
		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
		assert.Equal(t, "extra", cfg.Extra)
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse[serverConfig](config.WithEnvFiles("testdata/.env.missing"))
		assert.ErrorIs(t, err, config.ErrEnvFile)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse[requiredConfig](config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse[serverConfig](config.WithEnvironment(map[string]string{"PORT": "eighty"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

type cachedConfig struct {
	Value string `env:"FORMKIT_CACHED_VALUE" envDefault:"default"`
}

func TestLoad(t *testing.T) {
	config.ResetCache()
	t.Setenv("FORMKIT_CACHED_VALUE", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("FORMKIT_CACHED_VALUE", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *cachedConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad(t *testing.T) {
	config.ResetCache()
	t.Setenv("SECRET", "")
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
