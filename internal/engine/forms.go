// Released under an MIT license. See LICENSE.

package engine

import (
	"github.com/michaelmacinnis/cellscheme/internal/env"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

func begin(e *T, args heap.Value, s *State) heap.Value {
	return e.sequence("begin", args, s)
}

func cond(e *T, args heap.Value, s *State) heap.Value {
	h := e.heap

	clause, test := heap.Null, heap.Undefined
	defer h.Release(h.Push(&clause, &test))

	for clauses := args; ; clauses = clauses.Cdr() {
		if !clauses.IsPair() {
			return heap.Undefined
		}

		clause = clauses.Car()
		if !clause.IsPair() {
			fault.Raise(fault.Syntax, "cond: clause is not a list")
		}

		if clause.Car() == e.elsek {
			if clauses.Cdr() != heap.Null {
				fault.Raise(fault.Syntax, "cond: else must be the last clause")
			}

			if arrow(e, clause.Cdr()) {
				fault.Raise(fault.Syntax, "cond: => cannot follow else")
			}

			return e.sequence("cond", clause.Cdr(), s)
		}

		test = e.Eval(clause.Car(), s.Env)
		if test.IsTrue() {
			break
		}
	}

	body := clause.Cdr()
	if body == heap.Null {
		return test
	}

	if arrow(e, body) {
		proc := e.Eval(body.Cadr(), s.Env)
		defer h.Release(h.Push(&proc))

		return e.apply(proc, h.List(test), s, false)
	}

	return e.sequence("cond", body, s)
}

func define(e *T, args heap.Value, s *State) heap.Value {
	h := e.heap

	target := heap.Null
	if args.IsPair() {
		target = args.Car()
	}

	name, v := heap.Null, heap.Null
	defer h.Release(h.Push(&name, &v))

	if target.IsPair() {
		name = symbol("define", target.Car())
		v = h.Closure(params("define", target.Cdr()), proper("define", args.Cdr()), s.Env)
	} else {
		a := fixed(fault.Syntax, "define", args, 2, 2)
		name = symbol("define", a[0])
		v = e.Eval(a[1], s.Env)
	}

	env.Define(h, name, v, s.Env)

	return name
}

func ifForm(e *T, args heap.Value, s *State) heap.Value {
	v := fixed(fault.Syntax, "if", args, 2, 3)

	if e.Eval(v[0], s.Env).IsTrue() {
		s.Status = NeedEval

		return v[1]
	}

	if len(v) == 3 {
		s.Status = NeedEval

		return v[2]
	}

	return heap.Undefined
}

func lambda(e *T, args heap.Value, s *State) heap.Value {
	v, body := variadic(fault.Syntax, "lambda", args, 1, 1)

	return e.heap.Closure(params("lambda", v[0]), proper("lambda", body), s.Env)
}

// macro defines a macro from either of two forms:
//
//	(macro (name . params) body...)
//	(macro name (lambda params body...))
//
// The macro is bound to name's global value cell.
func macro(e *T, args heap.Value, s *State) heap.Value {
	h := e.heap

	name, closure := heap.Null, heap.Null
	defer h.Release(h.Push(&name, &closure))

	v, body := variadic(fault.Syntax, "macro", args, 1, 1)

	if target := v[0]; target.IsPair() {
		name = symbol("macro", target.Car())
		closure = h.Closure(params("macro", target.Cdr()), proper("macro", body), s.Env)
	} else {
		a := fixed(fault.Syntax, "macro", args, 2, 2)
		name = symbol("macro", a[0])

		if !a[1].IsPair() || a[1].Car() != e.lambda {
			fault.Raise(fault.Syntax, "macro: expected a lambda expression")
		}

		closure = e.Eval(a[1], s.Env)
	}

	m := h.Macro(closure)
	name.SetGlobal(m)

	return m
}

func quote(e *T, args heap.Value, s *State) heap.Value {
	return fixed(fault.Syntax, "quote", args, 1, 1)[0]
}

func set(e *T, args heap.Value, s *State) heap.Value {
	v := fixed(fault.Syntax, "set!", args, 2, 2)

	name := symbol("set!", v[0])
	value := e.Eval(v[1], s.Env)

	env.Assign(name, value, s.Env)

	return value
}

// sequence evaluates all but the last expression in body and hands the
// last one back to the caller's evaluation loop.
func (e *engine) sequence(name string, body heap.Value, s *State) heap.Value {
	if !proper(name, body).IsPair() {
		return heap.Undefined
	}

	for ; body.Cdr().IsPair(); body = body.Cdr() {
		e.Eval(body.Car(), s.Env)
	}

	s.Status = NeedEval

	return body.Car()
}

func arrow(e *T, body heap.Value) bool {
	return body.IsPair() && body.Car() == e.arrow &&
		body.Cdr().IsPair() && body.Cddr() == heap.Null
}
