package container

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Call invokes entry directly, skipping the store and the resolved cache.
//
// Entry shapes, checked in order:
//   - *Func or any Go func: parameters are resolved and the func is called
//   - []any{target} / []any{target, "Method"}: target is built (type
//     identifier) or taken as-is (object), optionally from a nested
//     []any{target, Params{...}} carrying constructor arguments, then Method
//     is called on it with params
//   - a type identifier defined in the catalog: the type is constructed
//   - anything else is returned unchanged
//
//	out, err := c.Call([]any{[]any{fooID, container.Params{"$argument": now}}, "Foo"},
//	    container.Params{"$text": "x"})
func (c *Container) Call(entry any, params Params) (any, error) {
	return c.call(entry, params, 0)
}

func (c *Container) call(entry any, params Params, depth int) (any, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if f, ok := asFunc(entry); ok {
		return c.callFunction(f, params, depth)
	}

	instance, err := c.newInstanceEntry(entry, params, depth)
	if err != nil {
		if isStructural(err) {
			c.log.WithField("entry", fmt.Sprintf("%T", entry)).
				WithError(err).
				Debug("container: entry is not constructible; returning it as-is")
			return entry, nil
		}
		return nil, err
	}
	return instance, nil
}

// ── Functions ─────────────────────────────────────────────────────────────────

func asFunc(entry any) (*Func, bool) {
	switch f := entry.(type) {
	case *Func:
		return f, f != nil
	case nil:
		return nil, false
	}
	v := reflect.ValueOf(entry)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, false
	}
	return &Func{fn: v}, true
}

func (c *Container) callFunction(f *Func, params Params, depth int) (any, error) {
	t := f.fn.Type()
	if err := checkSignature(f.Name(), t, len(f.declared)); err != nil {
		return nil, err
	}
	args, err := c.dependencies(f.Name(), t, f.Params(), params, depth)
	if err != nil {
		return nil, err
	}
	return results(f.Name(), f.fn.Call(args))
}

func checkSignature(name string, t reflect.Type, declared int) error {
	switch {
	case t.IsVariadic():
		return &ReflectionError{Func: name, Message: "variadic functions are not supported"}
	case declared > t.NumIn():
		return &ReflectionError{Func: name, Message: fmt.Sprintf("%d parameters declared, function takes %d", declared, t.NumIn())}
	case !validResults(t):
		return &ReflectionError{Func: name, Message: fmt.Sprintf("results must be (T) or (T, error), got %v", t)}
	}
	return nil
}

// results unpacks () / (T) / (T, error).
func results(name string, out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	if errv := out[1]; !errv.IsNil() {
		return nil, errors.Wrapf(errv.Interface().(error), "calling %s", name)
	}
	return out[0].Interface(), nil
}

// ── Classes ───────────────────────────────────────────────────────────────────

func (c *Container) newInstanceEntry(entry any, params Params, depth int) (any, error) {
	if target, method, ok := boundPair(entry); ok {
		return c.callClassWithMethod(target, method, params, depth)
	}
	return c.callClass(entry, params, depth)
}

// boundPair recognizes []any{target} and []any{target, "Method"} where target
// is a non-empty identifier, a non-empty nested pair or an object.
func boundPair(entry any) (target any, method string, ok bool) {
	pair, isSlice := entry.([]any)
	if !isSlice || len(pair) == 0 || len(pair) > 2 {
		return nil, "", false
	}
	switch t := pair[0].(type) {
	case string:
		if t == "" {
			return nil, "", false
		}
	case []any:
		if len(t) == 0 {
			return nil, "", false
		}
	default:
		if !isObject(t) {
			return nil, "", false
		}
	}
	if len(pair) == 2 {
		if method, ok = pair[1].(string); !ok {
			return nil, "", false
		}
	}
	return pair[0], method, true
}

func (c *Container) callClassWithMethod(target any, method string, params Params, depth int) (any, error) {
	var ctorArgs Params
	nested, isNested := target.([]any)
	if isNested {
		target = nested[0]
		if len(nested) > 1 {
			args, ok := asParams(nested[1])
			if !ok {
				return nil, notReflectable("constructor arguments of a bound pair must be Params, got %T", nested[1])
			}
			if err := args.validate(); err != nil {
				return nil, err
			}
			ctorArgs = args
		}
	}

	// No method: the pair stands for the constructor itself.
	if method == "" {
		if !isNested {
			ctorArgs = params
		}
		return c.callClass(target, ctorArgs, depth)
	}

	object, err := c.callClass(target, ctorArgs, depth)
	if err != nil {
		return nil, err
	}
	if id, abstract := object.(string); abstract {
		return nil, notReflectable("cannot call %s on non-instantiable [%s]", method, id)
	}
	return c.callMethod(object, method, params, depth)
}

// callClass builds target when it names a defined type and returns objects as
// they are.
func (c *Container) callClass(target any, params Params, depth int) (any, error) {
	id, ok := target.(string)
	if !ok {
		if isObject(target) {
			return target, nil
		}
		return nil, notReflectable("%T cannot be reflected upon", target)
	}
	cl, ok := c.types.Lookup(id)
	if !ok {
		return nil, notReflectable("[%s] does not name a defined type", id)
	}
	return c.construct(cl, params, depth)
}

func (c *Container) construct(cl *Class, params Params, depth int) (any, error) {
	if !cl.Instantiable() {
		return cl.name, nil
	}
	if cl.ctor == nil {
		return reflect.New(cl.typ).Interface(), nil
	}
	// With no required parameters and no overrides every argument comes from
	// its default, so one path serves both cases.
	t := cl.ctor.fn.Type()
	args, err := c.dependencies(cl.name, t, cl.ctor.Params(), params, depth)
	if err != nil {
		return nil, err
	}
	return results(cl.name, cl.ctor.fn.Call(args))
}

func (c *Container) callMethod(object any, name string, params Params, depth int) (any, error) {
	rv := reflect.ValueOf(object)
	m := rv.MethodByName(name)
	if !m.IsValid() && rv.Kind() != reflect.Pointer {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		m = ptr.MethodByName(name)
	}
	if !m.IsValid() {
		return nil, notReflectable("%T has no method %s", object, name)
	}

	cl, _ := c.types.LookupType(rv.Type())
	declared := cl.methodParams(name)
	qualified := fmt.Sprintf("%T.%s", object, name)

	t := m.Type()
	if err := checkSignature(qualified, t, len(declared)); err != nil {
		return nil, err
	}
	args, err := c.dependencies(qualified, t, describe(t, declared), params, depth)
	if err != nil {
		return nil, err
	}
	return results(qualified, m.Call(args))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// isObject reports whether v is an already-built value a method can be called
// on: a non-nil pointer or a struct.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	}
	return false
}

func asParams(v any) (Params, bool) {
	switch p := v.(type) {
	case nil:
		return nil, true
	case Params:
		return p, true
	case map[any]any:
		return Params(p), true
	case map[string]any:
		out := make(Params, len(p))
		for k, val := range p {
			out[k] = val
		}
		return out, true
	case map[int]any:
		out := make(Params, len(p))
		for k, val := range p {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

// ── Entry kinds ───────────────────────────────────────────────────────────────

// EntryKind names the shape Call recognizes in an entry.
type EntryKind string

const (
	KindFunction EntryKind = "function"
	KindPair     EntryKind = "pair"
	KindType     EntryKind = "type"
	KindValue    EntryKind = "value"
)

// KindOf reports how Call would treat entry, without calling anything. A pair
// whose target turns out not to be constructible still reports KindPair.
func (c *Container) KindOf(entry any) EntryKind {
	if _, ok := asFunc(entry); ok {
		return KindFunction
	}
	if _, _, ok := boundPair(entry); ok {
		return KindPair
	}
	if id, ok := entry.(string); ok {
		if _, defined := c.types.Lookup(id); defined {
			return KindType
		}
	}
	return KindValue
}
