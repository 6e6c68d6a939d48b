// Released under an MIT license. See LICENSE.

package engine

import (
	"fmt"

	"github.com/joomcode/errorx"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

// variadic returns up to max leading values from actual and the rest of
// the list. Fewer than min values raises an error of type t.
func variadic(t *errorx.Type, name string, actual heap.Value, min, max int) ([]heap.Value, heap.Value) {
	expected := make([]heap.Value, 0, max)

	for i := 0; i < max; i++ {
		if !actual.IsPair() {
			if actual != heap.Null {
				fault.Raise(fault.Syntax, "%s: improper argument list", name)
			}

			if i < min {
				s := count(min, "argument", "s")
				fault.Raise(t, "%s: expected %s, passed %d", name, s, i)
			}

			break
		}

		expected = append(expected, actual.Car())

		actual = actual.Cdr()
	}

	return expected, actual
}

// proper returns body, raising a syntax error if it is not a proper list.
func proper(name string, body heap.Value) heap.Value {
	l := body
	for l.IsPair() {
		l = l.Cdr()
	}

	if l != heap.Null {
		fault.Raise(fault.Syntax, "%s: improper body", name)
	}

	return body
}

// fixed is variadic with nothing allowed after the first max values.
func fixed(t *errorx.Type, name string, actual heap.Value, min, max int) []heap.Value {
	expected, rest := variadic(t, name, actual, min, max)
	if rest != heap.Null {
		s := count(max, "argument", "s")
		if min != max {
			s = "at most " + s
		}

		fault.Raise(t, "%s: expected %s, passed %d", name, s, actual.Length())
	}

	return expected
}

func count(n int, label string, p string) string {
	if n == 1 {
		p = ""
	}

	return fmt.Sprintf("%d %s%s", n, label, p)
}

func integers(name string, args heap.Value) []int {
	var ns []int

	for ; args.IsPair(); args = args.Cdr() {
		v := args.Car()
		if !v.IsInteger() {
			fault.Raise(fault.Type, "%s: expected integer, got %s", name, describe(v))
		}

		ns = append(ns, v.Int())
	}

	return ns
}

func symbol(name string, v heap.Value) heap.Value {
	if !v.IsSymbol() {
		fault.Raise(fault.Syntax, "%s: expected symbol, got %s", name, describe(v))
	}

	return v
}

// params checks that v is a parameter list: a possibly improper list of
// symbols, or a single symbol.
func params(name string, v heap.Value) heap.Value {
	p := v
	for ; p.IsPair(); p = p.Cdr() {
		symbol(name, p.Car())
	}

	if p != heap.Null {
		symbol(name, p)
	}

	return v
}

func describe(v heap.Value) string {
	if c, ok := v.Constant(); ok {
		return c.String()
	}

	return v.Kind().String()
}
