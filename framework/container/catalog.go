package container

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"sync"
)

// ── Function descriptors ──────────────────────────────────────────────────────

// Func is a function value paired with its parameter descriptors.
//
//	c.Call(container.Fn(func(t time.Time) time.Time { return t },
//	    container.Arg("argument", container.OfType("time.Time"))))
//
// Parameters left undescribed are named arg<i> and typed by their Go type.
type Func struct {
	fn       reflect.Value
	declared []Param
}

// Fn wraps fn with parameter descriptors. It panics if fn is not a func.
func Fn(fn any, params ...Param) *Func {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("container: Fn wants a func, got %T", fn))
	}
	return &Func{fn: v, declared: params}
}

// Name returns the runtime name of the wrapped function.
func (f *Func) Name() string {
	if rf := runtime.FuncForPC(f.fn.Pointer()); rf != nil {
		return rf.Name()
	}
	return f.fn.Type().String()
}

// Params returns the full descriptor list, one entry per Go parameter.
func (f *Func) Params() []Param {
	return describe(f.fn.Type(), f.declared)
}

// ── Classes ───────────────────────────────────────────────────────────────────

// Class is a constructible type known to a Catalog by its identifier.
type Class struct {
	name     string
	typ      reflect.Type
	ctor     *Func
	methods  map[string][]Param
	abstract bool
}

// Name returns the class identifier.
func (cl *Class) Name() string { return cl.name }

// Type returns the Go type the class builds.
func (cl *Class) Type() reflect.Type { return cl.typ }

// Instantiable reports whether the class can be constructed at all.
func (cl *Class) Instantiable() bool { return !cl.abstract }

// methodParams returns the declared descriptors for a method, or nil.
func (cl *Class) methodParams(name string) []Param {
	if cl == nil {
		return nil
	}
	return cl.methods[name]
}

// ClassOption configures a Class at definition time.
type ClassOption func(*Class)

// Constructor sets the function used to build the class. It must return one
// value, or a value and an error.
//
//	container.Constructor(NewMailer, container.Arg("host", container.Default("localhost")))
func Constructor(fn any, params ...Param) ClassOption {
	return func(cl *Class) {
		f := Fn(fn, params...)
		t := f.fn.Type()
		if t.IsVariadic() {
			panic(fmt.Sprintf("container: constructor for [%s] must not be variadic", cl.name))
		}
		if t.NumOut() == 0 || !validResults(t) {
			panic(fmt.Sprintf("container: constructor for [%s] must return (T) or (T, error), got %v", cl.name, t))
		}
		if len(params) > t.NumIn() {
			panic(fmt.Sprintf("container: constructor for [%s] declares %d parameters but takes %d", cl.name, len(params), t.NumIn()))
		}
		cl.ctor = f
	}
}

// Method declares the parameters of a method reachable through a bound-call pair.
// Undeclared methods are still callable with synthetic parameter names.
func Method(name string, params ...Param) ClassOption {
	return func(cl *Class) { cl.methods[name] = params }
}

// Abstract marks the class as non-instantiable; calling it yields its identifier.
func Abstract() ClassOption {
	return func(cl *Class) { cl.abstract = true }
}

// Named overrides the identifier derived from the Go type.
func Named(id string) ClassOption {
	return func(cl *Class) { cl.name = id }
}

// ── Catalog ───────────────────────────────────────────────────────────────────

// Catalog maps type identifiers to class definitions. It plays the part of a
// runtime class table, which Go does not have.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]*Class
	byType map[reflect.Type]*Class
}

// NewCatalog returns a catalog holding only the built-in classes.
func NewCatalog() *Catalog {
	cat := &Catalog{
		byName: make(map[string]*Class),
		byType: make(map[reflect.Type]*Class),
	}
	defineBuiltins(cat)
	return cat
}

// Define registers the type of sample (a value, a typed nil pointer or a
// reflect.Type) and returns its identifier. Redefining an identifier replaces it.
//
//	id := cat.Define((*Mailer)(nil), container.Constructor(NewMailer))
func (cat *Catalog) Define(sample any, opts ...ClassOption) string {
	t, ok := sample.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(sample)
	}
	if t == nil {
		panic("container: cannot define the type of an untyped nil")
	}
	t = baseType(t)

	cl := &Class{
		name:     TypeName(t),
		typ:      t,
		methods:  make(map[string][]Param),
		abstract: t.Kind() == reflect.Interface,
	}
	for _, opt := range opts {
		opt(cl)
	}
	if cl.name == "" {
		panic(fmt.Sprintf("container: type %v has no name; use Named", t))
	}
	// An interface with a constructor is buildable through it.
	if t.Kind() == reflect.Interface && cl.ctor != nil {
		cl.abstract = false
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	cat.byName[cl.name] = cl
	cat.byType[t] = cl
	return cl.name
}

// Lookup returns the class defined under id.
func (cat *Catalog) Lookup(id string) (*Class, bool) {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	cl, ok := cat.byName[id]
	return cl, ok
}

// LookupType returns the class defined for t (pointers are unwrapped).
func (cat *Catalog) LookupType(t reflect.Type) (*Class, bool) {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	cl, ok := cat.byType[baseType(t)]
	return cl, ok
}

// Names returns the defined identifiers in sorted order.
func (cat *Catalog) Names() []string {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	out := make([]string, 0, len(cat.byName))
	for k := range cat.byName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── Type identifiers ──────────────────────────────────────────────────────────

// TypeKey returns the identifier of v's type, pointers unwrapped.
//
//	key := container.TypeKey((*Mailer)(nil))  // "github.com/acme/app/mail.Mailer"
func TypeKey(v any) string {
	return TypeName(reflect.TypeOf(v))
}

// TypeOf returns the identifier of T.
func TypeOf[T any]() string {
	return TypeName(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeName is the identifier of a Go type: "pkgpath.Name" for named types, the
// builtin name ("string", "int") for predeclared ones, and "" for unnamed types
// and the empty interface, which count as untyped.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	t = baseType(t)
	if t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

func baseType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func validResults(t reflect.Type) bool {
	switch t.NumOut() {
	case 0, 1:
		return true
	case 2:
		return t.Out(1) == errorType
	}
	return false
}
