package providers

import (
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/inspect"
	"github.com/km-arc/go-injector/routing"
)

// Identifiers the framework providers register.
const (
	ConfigKey  = "config"
	LogKey     = "log"
	RouterKey  = "router"
	InspectKey = "inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the application configuration.
//
// Registered identifiers:
//   - "config" → *config.Config
//
// A pre-loaded Config is stored as is; otherwise the .env files are read the
// first time "config" is resolved.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	if p.Config != nil {
		app.Set(ConfigKey, p.Config)
		return
	}
	envFiles := p.EnvFiles
	app.Set(ConfigKey, func() *config.Config {
		return config.Load(envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the shared logger.
//
// Registered identifiers:
//   - "log" → logrus.FieldLogger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger logrus.FieldLogger
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	if p.Logger == nil {
		p.Logger = logrus.StandardLogger()
	}
	app.Set(LogKey, p.Logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router, built from "log".
//
// Registered identifiers:
//   - "router" → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Set(RouterKey, container.Fn(routing.New,
		container.Arg("log", container.OfType(LogKey))))
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider mounts the container inspection endpoints under
// Prefix on "router". It is deferred: nothing is mounted until "inspect" is
// first resolved, which Application.Run does before serving.
//
// Registered identifiers:
//   - "inspect" → *routing.Router with the endpoints mounted
type InspectServiceProvider struct {
	container.BaseProvider
	Prefix string // default: "/container"
}

func (p *InspectServiceProvider) IsDeferred() bool   { return true }
func (p *InspectServiceProvider) Provides() []string { return []string{InspectKey} }

func (p *InspectServiceProvider) Register(app *container.Container) {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/container"
	}
	app.Set(InspectKey, container.Fn(func(r *routing.Router, c *container.Container) *routing.Router {
		r.Prefix(prefix, func(r *routing.Router) { inspect.Routes(r, c) })
		return r
	}, container.Arg("router", container.OfType(RouterKey))))
}
