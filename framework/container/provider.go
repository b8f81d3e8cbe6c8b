package container

import "sync"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the entries and class definitions of one concern.
//
// Register() must only record entries. Boot() runs after every provider has
// registered, so resolving other identifiers is safe there.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) {
//	    id := app.Define((*Mailer)(nil), container.Constructor(NewMailer,
//	        container.Arg("host", container.Default("localhost"))))
//	    app.Set("mailer", id)
//	}
//
//	func (p *MailProvider) Boot(app *container.Container) error {
//	    _, err := app.Resolve("mailer", nil)
//	    return err
//	}
type ServiceProvider interface {
	// Register records entries and definitions in the container.
	Register(app *Container)

	// Boot is called once all providers are registered.
	Boot(app *Container) error

	// Provides lists the identifiers a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register waits until one of Provides() is
	// first made.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider gives no-op Boot, Provides and IsDeferred. Embed it and
// implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one container.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // id → provider
	loaded     map[ServiceProvider]bool   // deferred providers already registered
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		loaded:     make(map[ServiceProvider]bool),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers register immediately and are
// booted at once when the registry already booted. A provider given twice is
// ignored.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, id := range provider.Provides() {
			r.deferred[id] = provider
		}
		r.mu.Unlock()
		r.interceptDeferred(provider)
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return provider.Boot(r.app)
	}
	return nil
}

// interceptDeferred stores a placeholder function entry for each identifier
// the provider supplies. The first Make of any of them registers (and, after
// Boot, boots) the provider for real, then calls the entry the provider just
// stored. The outer Make fires AfterResolving once for id. A provider that
// does not replace the placeholder leaves the identifier not found.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, id := range provider.Provides() {
		var placeholder *Func
		placeholder = Fn(func() (any, error) {
			if err := r.load(provider); err != nil {
				return nil, err
			}
			entry, err := r.app.Get(id)
			if err != nil {
				return nil, err
			}
			if entry == any(placeholder) {
				return nil, &NotFoundError{ID: id}
			}
			return r.app.Call(entry, nil)
		})
		r.app.Set(id, placeholder)
	}
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.mu.Lock()
	if r.loaded[provider] {
		r.mu.Unlock()
		return nil
	}
	r.loaded[provider] = true
	for _, id := range provider.Provides() {
		delete(r.deferred, id)
	}
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return provider.Boot(r.app)
	}
	return nil
}

// Boot calls Boot() on every eager provider, stopping at the first error.
// Later calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted reports whether Boot() has run.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// Pending returns the identifiers whose deferred provider has not loaded yet.
func (r *ProviderRegistry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.deferred))
	for id := range r.deferred {
		out = append(out, id)
	}
	return out
}
