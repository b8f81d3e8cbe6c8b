package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-injector/framework/config"
)

var keys = []string{
	"APP_NAME", "APP_ENV", "CONTAINER_AUTOWIRING", "CONTAINER_MAX_DEPTH",
	"LOG_LEVEL", "LOG_FORMAT", "INSPECT_ADDR",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "go-injector"},
		{"App.Env", cfg.App.Env, "local"},
		{"Container.Autowiring", cfg.Container.Autowiring, false},
		{"Container.MaxDepth", cfg.Container.MaxDepth, 512},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
		{"Inspect.Addr", cfg.Inspect.Addr, ":8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingFileIsSkipped(t *testing.T) {
	clearEnv(t)
	cfg := config.Load("testdata/does-not-exist.env")
	assert.Equal(t, "go-injector", cfg.App.Name)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	cfg := config.Load("testdata/injector.env")

	assert.Equal(t, "resolver", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.True(t, cfg.Container.Autowiring)
	assert.Equal(t, 64, cfg.Container.MaxDepth)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9090", cfg.Inspect.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CONTAINER_MAX_DEPTH", "0")

	cfg := config.Load("testdata/injector.env")

	assert.Equal(t, "production", cfg.App.Env)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0, cfg.Container.MaxDepth)
	assert.Equal(t, "resolver", cfg.App.Name)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTAINER_MAX_DEPTH", "deep")
	t.Setenv("CONTAINER_AUTOWIRING", "sometimes")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, 512, cfg.Container.MaxDepth)
	assert.False(t, cfg.Container.Autowiring)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	t.Setenv("MISSING_KEY", "")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
