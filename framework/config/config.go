package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the typed configuration of an injector application.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
	Inspect   InspectConfig
}

type AppConfig struct {
	Name string
	Env  string // local | production | testing
}

// ContainerConfig seeds container.New options.
type ContainerConfig struct {
	Autowiring bool
	MaxDepth   int // 0 disables the recursion guard
}

type LogConfig struct {
	Level  string // any logrus level name
	Format string // text | json
}

// InspectConfig controls the read-only HTTP view of the container.
type InspectConfig struct {
	Addr string
}

// Load reads the given .env files (default ".env"; missing files are skipped)
// and builds a Config. Process environment variables win over file values.
//
//	cfg := config.Load()
//	cfg := config.Load("deploy/injector.env")
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	src := source{file: map[string]string{}}
	for _, f := range files {
		// Non-fatal: .env may not exist in production
		values, err := godotenv.Read(f)
		if err != nil {
			continue
		}
		for k, v := range values {
			src.file[k] = v
		}
	}

	return &Config{
		App: AppConfig{
			Name: src.str("APP_NAME", "go-injector"),
			Env:  src.str("APP_ENV", "local"),
		},
		Container: ContainerConfig{
			Autowiring: src.bool("CONTAINER_AUTOWIRING", false),
			MaxDepth:   src.int("CONTAINER_MAX_DEPTH", 512),
		},
		Log: LogConfig{
			Level:  strings.ToLower(src.str("LOG_LEVEL", "info")),
			Format: strings.ToLower(src.str("LOG_FORMAT", "text")),
		},
		Inspect: InspectConfig{
			Addr: src.str("INSPECT_ADDR", ":8080"),
		},
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	return parseInt(os.Getenv(key), defaultVal)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return parseBool(os.Getenv(key), defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

// source looks a key up in the process environment, then in the loaded files.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s.file[key]
}

func (s source) str(key, fallback string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (s source) int(key string, fallback int) int { return parseInt(s.lookup(key), fallback) }

func (s source) bool(key string, fallback bool) bool { return parseBool(s.lookup(key), fallback) }

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func parseBool(v string, fallback bool) bool {
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
