// Package container provides a reflection-driven dependency-resolution
// container with identifier-based autowiring.
//
// # Overview
//
// A Container keeps raw entries under string identifiers and turns them into
// live values on demand. An entry may be a plain value, a function, a type
// identifier or a bound-call pair; the container introspects the target's
// parameters, fills every one it can (overrides, defaults, registered
// identifiers, declared types) and invokes it.
//
// Go has no runtime class table and drops parameter names, so constructible
// types are declared in a Catalog together with their parameter descriptors.
//
// # Entries
//
//	c := container.New()
//
//	// Plain value, returned verbatim
//	c.Set("greeting", "hello")
//
//	// Type identifier, built through its constructor
//	id := c.Define((*Mailer)(nil),
//	    container.Constructor(NewMailer, container.Arg("host", container.Default("localhost"))))
//	c.Set("mailer", id)
//
//	// Function value, parameters resolved on call
//	c.Set("report", container.Fn(func(m *Mailer, title string) *Report { ... },
//	    container.Arg("mailer", container.OfType(id)),
//	    container.Arg("title", container.Default("weekly"))))
//
//	// Bound-call pair: build Mailer with host=smtp, then call Send
//	c.Set("send", []any{[]any{id, container.Params{"$host": "smtp"}}, "Send"})
//
// # Resolving
//
//	// Memoized: every call returns the same value
//	m, err := c.Resolve("mailer", nil)
//
//	// Fresh value each time
//	m2, err := c.Make("mailer", nil)
//
//	// Entry in hand, no store or cache involved
//	t, err := c.Call(container.TimeKey, container.Params{0: "1992-10-27 10:15:00"})
//
//	// Generic
//	mailer, err := container.ResolveAs[*Mailer](c, "mailer", nil)
//
// # Parameter resolution
//
// Each declared parameter takes the first of: the "$name" override, the
// "name" override, the positional override, its default, then
//   - untyped: the identifier "$name"
//   - typed: each declared type identifier in order; the first that resolves
//     wins, and when none does the last not-found error is returned.
//
// # Autowiring
//
//	c.UseAutowiring(true)
//	// An unregistered identifier is registered as its own entry, so a defined
//	// type builds itself and any other identifier comes back as the string.
//	now, err := c.Make(container.TimeKey, nil)
//
// # Errors
//
// Missing dependencies surface as *NotFoundError (errors.Is(err, ErrNotFound)).
// Entries that cannot be interpreted as a type or method target are returned
// unchanged by Call. Malformed function values (*ReflectionError), values that
// do not fit the Go parameter type (*ArgumentError) and runaway recursion
// (*DepthExceededError) always propagate.
//
// # Process-wide container
//
//	c := container.Global()               // created on first use
//	restore := container.SetGlobal(other) // swap in tests
//	defer restore()
//
// # Service Providers
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) {
//	    app.Set("mailer", app.Define((*Mailer)(nil), container.Constructor(NewMailer)))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(&MailProvider{})
//	_ = registry.Boot()
package container
