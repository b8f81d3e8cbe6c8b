package container

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// SelfKey is the identifier under which a container resolves to itself.
var SelfKey = TypeKey((*Container)(nil))

// DefaultMaxDepth bounds how deep one resolution may recurse.
const DefaultMaxDepth = 512

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the dependency-resolution container. It layers reflection-driven
// construction over a plain identifier → entry store.
//
// It supports:
//   - Set / Unset / Has / Get on raw entries
//   - Resolve (memoized), Make (fresh), Call (entry in hand)
//   - Autowiring of unregistered type identifiers
//   - Tags and after-resolving callbacks
type Container struct {
	entries  *store
	resolved *resolvedCache
	types    *Catalog

	autowiring atomic.Bool
	maxDepth   int
	log        logrus.FieldLogger

	mu sync.RWMutex

	// tag → []id
	tags map[string][]string

	// resolved callbacks: []func(id, instance)
	afterResolving []func(string, any)
}

// Option configures a Container at construction.
type Option func(*Container)

// WithAutowiring sets the initial autowiring switch.
func WithAutowiring(enabled bool) Option {
	return func(c *Container) { c.autowiring.Store(enabled) }
}

// WithCatalog shares a catalog of class definitions between containers.
func WithCatalog(cat *Catalog) Option {
	return func(c *Container) { c.types = cat }
}

// WithLogger routes the container's debug output to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Container) { c.log = l }
}

// WithMaxDepth sets the recursion bound; 0 disables it.
func WithMaxDepth(depth int) Option {
	return func(c *Container) { c.maxDepth = depth }
}

// New creates an empty container with autowiring off.
func New(opts ...Option) *Container {
	c := &Container{
		entries:  newStore(),
		resolved: newResolvedCache(),
		maxDepth: DefaultMaxDepth,
		log:      logrus.StandardLogger(),
		tags:     make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.types == nil {
		c.types = NewCatalog()
	}
	return c
}

// Types returns the catalog the container builds classes from.
func (c *Container) Types() *Catalog { return c.types }

// Define adds a class to the container's catalog and returns its identifier.
//
//	id := c.Define((*Mailer)(nil),
//	    container.Constructor(NewMailer, container.Arg("host", container.Default("localhost"))))
func (c *Container) Define(sample any, opts ...ClassOption) string {
	return c.types.Define(sample, opts...)
}

// DefineType is the generic form of Define.
func DefineType[T any](c *Container, opts ...ClassOption) string {
	return c.types.Define((*T)(nil), opts...)
}

// ── Entry store ───────────────────────────────────────────────────────────────

// Set registers an entry, replacing any previous one. The resolved cache is
// left untouched. An empty id panics with an *InvalidArgumentError.
//
//	c.Set("time.Time", "time.Time")
func (c *Container) Set(id string, entry any) {
	if id == "" {
		panic(&InvalidArgumentError{Message: "empty identifier"})
	}
	c.entries.set(id, entry)
}

// Unset removes the raw entry for id. Already resolved values stay cached.
func (c *Container) Unset(id string) {
	c.entries.unset(id)
}

// Has reports whether a raw entry is registered for id.
func (c *Container) Has(id string) bool {
	return c.entries.has(id)
}

// Get returns the raw entry for id, without resolving it.
func (c *Container) Get(id string) (any, error) {
	if id == "" {
		return nil, &InvalidArgumentError{Message: "empty identifier"}
	}
	return c.entries.get(id)
}

// Entries returns the registered identifiers, sorted.
func (c *Container) Entries() []string {
	return c.entries.ids()
}

// ResolvedIDs returns the identifiers held by the resolved cache, sorted.
func (c *Container) ResolvedIDs() []string {
	return c.resolved.ids()
}

// ── Autowiring ────────────────────────────────────────────────────────────────

// UseAutowiring toggles autowiring for subsequent Make calls.
func (c *Container) UseAutowiring(enabled bool) {
	c.autowiring.Store(enabled)
}

// Autowiring reports the current switch.
func (c *Container) Autowiring() bool {
	return c.autowiring.Load()
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the value for id, building it on first use and returning
// the identical value on every later call. Overrides only matter for the call
// that builds the value.
//
//	mailer, err := c.Resolve(container.TypeKey((*Mailer)(nil)), nil)
func (c *Container) Resolve(id string, params Params) (any, error) {
	return c.resolve(id, params, 0)
}

func (c *Container) resolve(id string, params Params, depth int) (any, error) {
	if v, ok := c.resolved.load(id); ok {
		return v, nil
	}
	v, err := c.make(id, params, depth)
	if err != nil {
		return nil, err
	}
	v, loaded := c.resolved.loadOrStore(id, v)
	if loaded {
		c.log.WithField("id", id).Debug("container: concurrent resolution lost; keeping first value")
	}
	return v, nil
}

// Make builds a fresh value for id on every call.
//
//	now, err := c.Make("time.Time", nil)
func (c *Container) Make(id string, params Params) (any, error) {
	return c.make(id, params, 0)
}

func (c *Container) make(id string, params Params, depth int) (any, error) {
	if id == "" {
		return nil, &InvalidArgumentError{Message: "empty identifier"}
	}
	if c.maxDepth > 0 && depth >= c.maxDepth {
		return nil, &DepthExceededError{ID: id, Depth: depth}
	}
	if id == SelfKey {
		return c, nil
	}

	var entry any
	if c.Autowiring() && !c.Has(id) {
		c.log.WithField("id", id).Debug("container: autowiring unregistered identifier")
		c.entries.set(id, id)
		entry = id
	} else {
		var err error
		if entry, err = c.entries.get(id); err != nil {
			return nil, err
		}
	}

	instance, err := c.call(entry, params, depth+1)
	if err != nil {
		return nil, err
	}
	c.fireAfterResolving(id, instance)
	return instance, nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates identifiers under a named group.
//
//	c.Tag([]string{"reports.cpu", "reports.memory"}, "reports")
func (c *Container) Tag(ids []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], ids...)
}

// Tagged resolves every identifier registered under tag, in tagging order.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	ids := append([]string(nil), c.tags[tag]...)
	c.mu.RUnlock()

	result := make([]any, 0, len(ids))
	for _, id := range ids {
		v, err := c.Resolve(id, nil)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every successful Make,
// including the one a first Resolve triggers.
func (c *Container) AfterResolving(cb func(id string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(id string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(id, instance)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// ResolveAs resolves id and type-asserts the result.
//
//	// Instead of: v, err := c.Resolve(id, nil); mailer := v.(*Mailer)
//	mailer, err := container.ResolveAs[*Mailer](c, id, nil)
func ResolveAs[T any](c *Container, id string, params Params) (T, error) {
	v, err := c.Resolve(id, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertAs[T](id, v)
}

// MakeAs makes id and type-asserts the result.
func MakeAs[T any](c *Container, id string, params Params) (T, error) {
	v, err := c.Make(id, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertAs[T](id, v)
}

// MustResolve is like ResolveAs but panics on failure.
func MustResolve[T any](c *Container, id string) T {
	v, err := ResolveAs[T](c, id, nil)
	if err != nil {
		panic(err)
	}
	return v
}

func assertAs[T any](id string, v any) (T, error) {
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, &InvalidArgumentError{
			Message: fmt.Sprintf("[%s] resolved to %T, not %v", id, v, reflect.TypeOf((*T)(nil)).Elem()),
		}
	}
	return typed, nil
}
