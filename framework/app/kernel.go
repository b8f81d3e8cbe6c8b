package app

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/routing"
)

// Version is reported by the CLI.
const Version = "0.1.0"

// Application bundles a configured container with its provider registry.
// Embedding the container lets callers write app.Set / app.Resolve directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	cfg *config.Config
	log *logrus.Logger
}

// Options tweak New. The zero value loads ".env" and logs to stderr.
type Options struct {
	EnvFiles []string
	LogOut   io.Writer
}

// New loads configuration, builds the logger and the container, and registers
// the framework providers. Providers are not booted yet.
func New(opts Options) (*Application, error) {
	cfg := config.Load(opts.EnvFiles...)
	log, err := logging.New(cfg, opts.LogOut)
	if err != nil {
		return nil, errors.Wrap(err, "configuring logger")
	}

	c := container.New(
		container.WithAutowiring(cfg.Container.Autowiring),
		container.WithMaxDepth(cfg.Container.MaxDepth),
		container.WithLogger(log),
	)
	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		cfg:       cfg,
		log:       log,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{},
		&providers.InspectServiceProvider{},
	} {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return errors.Wrap(a.Providers.Boot(), "booting providers")
}

// Config returns the configuration the application was built from.
func (a *Application) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() *logrus.Logger { return a.log }

// Router resolves the inspection router, mounting the endpoints on first use.
func (a *Application) Router() (*routing.Router, error) {
	return container.ResolveAs[*routing.Router](a.Container, providers.InspectKey, nil)
}

// Run boots the application (if needed) and serves the inspection endpoints on
// cfg.Inspect.Addr until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		return errors.Wrap(err, "building router")
	}

	srv := &http.Server{
		Addr:              a.cfg.Inspect.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.log.WithFields(logrus.Fields{
			"addr":       srv.Addr,
			"autowiring": a.Autowiring(),
		}).Info("inspection server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	a.log.Info("inspection server stopped")
	return nil
}
