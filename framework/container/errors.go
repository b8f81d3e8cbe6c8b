package container

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("container: entry not found")

// NotFoundError is returned when an identifier has no entry in the store and
// autowiring is off. It is also what a typed parameter reports when none of its
// declared types could be resolved (the last candidate's error wins).
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "container: no entry registered for [" + e.ID + "]"
}

// Is reports true for ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err carries a *NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidArgumentError reports a malformed identifier or override key.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return "container: invalid argument: " + e.Message
}

// ReflectionError reports a function value the container cannot call:
// variadic funcs, descriptors naming more parameters than the func takes, or
// result lists other than (T) or (T, error). It is never recovered.
type ReflectionError struct {
	Func    string
	Message string
}

func (e *ReflectionError) Error() string {
	return fmt.Sprintf("container: cannot invoke %s: %s", e.Func, e.Message)
}

// ArgumentError reports a resolved value that cannot be bound to the Go type
// of the parameter it was resolved for.
type ArgumentError struct {
	Param    string
	Position int
	Want     string
	Got      string
}

func (e *ArgumentError) Error() string {
	return "container: parameter " + strconv.Quote(e.Param) + " (#" + strconv.Itoa(e.Position) +
		") wants " + e.Want + ", got " + e.Got
}

// DepthExceededError is returned when resolution recurses deeper than the
// container's MaxDepth, which in practice means a cyclic type graph.
type DepthExceededError struct {
	ID    string
	Depth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("container: resolution depth %d exceeded while making [%s]", e.Depth, e.ID)
}

// structuralError is a failure to interpret an entry as a constructible or
// callable target (unknown type identifier, missing method, nothing to reflect
// on). Call absorbs it and returns the entry unchanged.
type structuralError struct {
	reason string
}

func (e *structuralError) Error() string { return "container: " + e.reason }

func notReflectable(format string, args ...any) error {
	return &structuralError{reason: fmt.Sprintf(format, args...)}
}

func isStructural(err error) bool {
	var se *structuralError
	return errors.As(err, &se)
}
