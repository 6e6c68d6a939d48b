// Released under an MIT license. See LICENSE.

// Package fault defines the error taxonomy shared by the heap, reader and
// evaluator.
//
// Errors are errorx errors in the scheme namespace. Code deep inside the
// evaluator raises them by panicking; the nearest recovery point (see
// engine.T.Catch) turns the panic back into an ordinary error value.
package fault

import (
	"github.com/joomcode/errorx"
)

//nolint:gochecknoglobals
var (
	scheme = errorx.NewNamespace("scheme")

	// Syntax is raised for malformed input or a malformed special form.
	Syntax = scheme.NewType("syntax_error")

	// Unbound is raised when a symbol has no local or global binding.
	Unbound = scheme.NewType("unbound_variable")

	// Arity is raised when a procedure receives the wrong number of arguments.
	Arity = scheme.NewType("argument_count")

	// Type is raised when a value of the wrong kind is used.
	Type = scheme.NewType("type_error")

	// Eval covers unsupported operations.
	Eval = scheme.NewType("eval_error")

	// OutOfMemory is raised when the heap cannot satisfy an allocation.
	OutOfMemory = scheme.NewType("out_of_memory")

	// Stale is raised when a reference to a reclaimed cell is used.
	Stale = scheme.NewType("stale_reference")

	// Expr is the expression under evaluation when an error was raised.
	Expr = errorx.RegisterProperty("expr")
)

// New returns a new error of type t.
func New(t *errorx.Type, format string, args ...interface{}) error {
	return t.New(format, args...)
}

// Raise panics with a new error of type t.
func Raise(t *errorx.Type, format string, args ...interface{}) {
	panic(t.New(format, args...))
}

// Throw panics with err as is. An error returned by Recovered can be
// thrown again without being wrapped.
func Throw(err error) {
	panic(err)
}

// Annotate records x as the expression under evaluation when err was
// raised, unless err already records one.
func Annotate(err error, x interface{}) error {
	e := errorx.Cast(err)
	if e == nil {
		return err
	}

	if _, ok := errorx.ExtractProperty(e, Expr); ok {
		return err
	}

	return e.WithProperty(Expr, x)
}

// Expression returns the expression recorded in err, if any.
func Expression(err error) (interface{}, bool) {
	return errorx.ExtractProperty(err, Expr)
}

// Message returns the bare message for err, without the type prefix.
func Message(err error) string {
	if e := errorx.Cast(err); e != nil {
		return e.Message()
	}

	return err.Error()
}

// Is returns true if err is an error of type t.
func Is(err error, t *errorx.Type) bool {
	return errorx.IsOfType(err, t)
}

// Recovered converts the value r returned by recover into an error.
// Values that are not errors in the scheme namespace are not ours to
// handle, so Recovered re-panics with them. Wrappers added by
// errorx.Panic are removed.
func Recovered(r interface{}) error {
	err, ok := r.(error)
	if !ok {
		panic(r)
	}

	for e := errorx.Cast(err); e != nil; e = errorx.Cast(e.Cause()) {
		if ours(e.Type()) {
			return e
		}
	}

	panic(r)
}

func ours(t *errorx.Type) bool {
	for _, o := range []*errorx.Type{
		Syntax, Unbound, Arity, Type, Eval, OutOfMemory, Stale,
	} {
		if t == o {
			return true
		}
	}

	return false
}
