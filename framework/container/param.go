package container

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// ── Overrides ─────────────────────────────────────────────────────────────────

// Params holds per-call parameter overrides. Keys are "$name", "name" or an
// int position; values are bound verbatim.
//
//	c.Call("time.Time", container.Params{"$datetime": "1992-10-27 10:15:00"})
//	c.Call("time.Time", container.Params{0: "1992-10-27 10:15:00"})
type Params map[any]any

func (p Params) validate() error {
	for k := range p {
		switch key := k.(type) {
		case string:
			if key == "" || key == "$" {
				return &InvalidArgumentError{Message: "empty parameter name in overrides"}
			}
		case int:
		default:
			return &InvalidArgumentError{Message: fmt.Sprintf("override key %v (%T) is neither a parameter name nor a position", k, k)}
		}
	}
	return nil
}

// lookup applies the override precedence: "$name", then "name", then position.
func (p Params) lookup(name string, position int) (any, bool) {
	if v, ok := p["$"+name]; ok {
		return v, true
	}
	if v, ok := p[name]; ok {
		return v, true
	}
	v, ok := p[position]
	return v, ok
}

// ── Parameter descriptors ─────────────────────────────────────────────────────

// Param describes one declared parameter of a constructor, method or function.
// Go keeps neither parameter names nor defaults at runtime, so they are
// declared here; position is the index in the descriptor list.
type Param struct {
	Name string

	// Types are declared type identifiers, tried in order. Empty means untyped.
	Types []string

	Default    any
	HasDefault bool

	// AllOf marks Types as an intersection. Resolution still treats the list as
	// any-of: the first resolvable type wins.
	AllOf bool
}

// ParamOption configures a Param.
type ParamOption func(*Param)

// Arg declares a parameter by name.
//
//	container.Arg("argument", container.OfType("time.Time"))
//	container.Arg("text", container.Default("bar"))
func Arg(name string, opts ...ParamOption) Param {
	p := Param{Name: name}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Default gives the parameter a default value (nil is a valid default).
func Default(v any) ParamOption {
	return func(p *Param) {
		p.Default = v
		p.HasDefault = true
	}
}

// OfType declares the parameter's type identifiers. More than one acts as a
// union: the first one that resolves is injected.
func OfType(types ...string) ParamOption {
	return func(p *Param) { p.Types = append(p.Types, types...) }
}

// AllOf declares an intersection of type identifiers.
func AllOf(types ...string) ParamOption {
	return func(p *Param) {
		p.Types = append(p.Types, types...)
		p.AllOf = true
	}
}

// Untyped reports whether no type was declared.
func (p Param) Untyped() bool { return len(p.Types) == 0 }

// Required reports whether the parameter has no default.
func (p Param) Required() bool { return !p.HasDefault }

// describe completes a descriptor list against a Go func type: declared
// entries are kept, the remaining positions get synthetic names arg<i> and the
// Go type as their declared type.
func describe(fnType reflect.Type, declared []Param) []Param {
	params := make([]Param, fnType.NumIn())
	for i := range params {
		if i < len(declared) {
			params[i] = declared[i]
			if params[i].Name == "" {
				params[i].Name = "arg" + strconv.Itoa(i)
			}
			continue
		}
		p := Param{Name: "arg" + strconv.Itoa(i)}
		if name := TypeName(fnType.In(i)); name != "" {
			p.Types = []string{name}
		}
		params[i] = p
	}
	return params
}

// ── Resolution ────────────────────────────────────────────────────────────────

// dependencies builds the positional argument list for fnType from params,
// resolving every parameter the overrides and defaults do not cover.
func (c *Container) dependencies(target string, fnType reflect.Type, params []Param, overrides Params, depth int) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for i, p := range params {
		v, err := c.resolveParameter(p, i, overrides, depth)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving parameter $%s of %s", p.Name, target)
		}
		arg, err := bind(v, fnType.In(i), p.Name, i)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}

func (c *Container) resolveParameter(p Param, position int, overrides Params, depth int) (any, error) {
	if v, ok := overrides.lookup(p.Name, position); ok {
		return v, nil
	}
	if p.HasDefault {
		return p.Default, nil
	}
	if p.Untyped() {
		return c.resolve("$"+p.Name, nil, depth)
	}
	return c.resolveTyped(p.Types, depth)
}

// resolveTyped tries each declared type in order. A NotFound moves on to the
// next candidate; when all fail the last NotFound is returned.
func (c *Container) resolveTyped(types []string, depth int) (any, error) {
	var last error
	for _, t := range types {
		v, err := c.resolve(t, nil, depth)
		if err == nil {
			return v, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
		last = err
	}
	return nil, last
}

// bind converts v to the Go type of the parameter it fills.
func bind(v any, want reflect.Type, name string, position int) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if convertible(rv, want) {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, &ArgumentError{Param: name, Position: position, Want: want.String(), Got: rv.Type().String()}
}

// convertible limits implicit conversion to scalar kinds so that, say, an int
// never silently becomes a string. Numbers convert only when the value is
// represented exactly: floats never become integers and out-of-range or
// negative-to-unsigned values are rejected.
func convertible(v reflect.Value, to reflect.Type) bool {
	from := v.Type()
	if !from.ConvertibleTo(to) {
		return false
	}
	switch {
	case from.Kind() == reflect.String && to.Kind() == reflect.String:
		return true
	case from.Kind() == reflect.Bool && to.Kind() == reflect.Bool:
		return true
	}

	target := reflect.Zero(to)
	switch src, dst := numericClass(from.Kind()), numericClass(to.Kind()); {
	case src == signed && dst == signed:
		return !target.OverflowInt(v.Int())
	case src == signed && dst == unsigned:
		return v.Int() >= 0 && !target.OverflowUint(uint64(v.Int()))
	case src == unsigned && dst == signed:
		return v.Uint() <= math.MaxInt64 && !target.OverflowInt(int64(v.Uint()))
	case src == unsigned && dst == unsigned:
		return !target.OverflowUint(v.Uint())
	case src == float && dst == float:
		return !target.OverflowFloat(v.Float())
	case (src == signed || src == unsigned) && dst == float:
		return true
	}
	return false
}

type numeric int

const (
	notNumeric numeric = iota
	signed
	unsigned
	float
)

func numericClass(k reflect.Kind) numeric {
	switch {
	case k >= reflect.Int && k <= reflect.Int64:
		return signed
	case k >= reflect.Uint && k <= reflect.Uintptr:
		return unsigned
	case k == reflect.Float32 || k == reflect.Float64:
		return float
	}
	return notNumeric
}
