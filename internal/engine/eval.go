// Released under an MIT license. See LICENSE.

package engine

import (
	"github.com/michaelmacinnis/cellscheme/internal/env"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/printer"
)

// Procedure types. A primitive's Proc is one of these and its type
// determines how arguments are passed.
type (
	// SpecialForm receives its arguments unevaluated.
	SpecialForm func(e *T, args heap.Value, s *State) heap.Value

	// ListExpr receives its evaluated arguments as a list.
	ListExpr func(e *T, args heap.Value) heap.Value

	// Expr0 through Expr5 receive exactly that many evaluated arguments.
	Expr0 func(e *T) heap.Value
	Expr1 func(e *T, a heap.Value) heap.Value
	Expr2 func(e *T, a, b heap.Value) heap.Value
	Expr3 func(e *T, a, b, c heap.Value) heap.Value
	Expr4 func(e *T, a, b, c, d heap.Value) heap.Value
	Expr5 func(e *T, a, b, c, d, f heap.Value) heap.Value
)

// Eval evaluates x in the environment scope.
//
// Applications that end with an expression in tail position hand it back
// instead of evaluating it, and Eval loops. A tail call therefore does not
// grow the Go stack.
func (e *engine) Eval(x, scope heap.Value) heap.Value {
	h := e.heap

	s := &State{Env: scope}
	proc := heap.Null

	defer h.Release(h.Push(&x, &s.Env, &s.form, &proc))

	for {
		e.current = x

		switch {
		case x.IsSymbol():
			return env.Value(x, s.Env)
		case !x.IsPair():
			return x
		}

		s.Status = ReturnValue
		s.form = x

		if op := x.Car(); op.IsSymbol() {
			proc = env.Value(op, s.Env)
		} else {
			proc = e.Eval(op, s.Env)
			e.current = x
		}

		x = e.apply(proc, x.Cdr(), s, true)
		if s.Status != NeedEval {
			return x
		}
	}
}

// call applies proc to args without evaluating them and finishes any
// evaluation handed back through s.
func (e *engine) call(proc, args heap.Value) heap.Value {
	s := &State{Env: heap.Null}
	defer e.heap.Release(e.heap.Push(&s.Env))

	v := e.apply(proc, args, s, false)
	if s.Status == NeedEval {
		return e.Eval(v, s.Env)
	}

	return v
}

func (e *engine) apply(proc, args heap.Value, s *State, evalArgs bool) heap.Value {
	defer e.heap.Release(e.heap.Push(&proc, &args))

	switch proc.Kind() {
	case heap.KindPrimitive:
		return e.applyPrimitive(proc.Primitive(), args, s, evalArgs)
	case heap.KindClosure:
		return e.applyClosure(proc, args, s, evalArgs)
	case heap.KindMacro:
		if !evalArgs {
			fault.Raise(fault.Eval, "can't apply/map a macro")
		}

		return e.applyMacro(proc, args, s)
	}

	fault.Raise(fault.Type, "not a procedure: %s", printer.String(proc))

	return heap.Undefined
}

func (e *engine) applyClosure(c, args heap.Value, s *State, evalArgs bool) heap.Value {
	h := e.heap

	want, rest := arity(c.Params())
	if have := args.Length(); have < want || (!rest && have > want) {
		n := count(want, "argument", "s")
		if rest {
			n = "at least " + n
		}

		fault.Raise(fault.Arity, "%s: expected %s, passed %d", printer.String(c), n, have)
	}

	scope := heap.Null
	defer h.Release(h.Push(&args, &scope))

	if evalArgs {
		args = e.evalList(args, s)
	}

	scope = env.Extend(h, c.Params(), args, c.Env())

	body := c.Body()
	if !body.IsPair() {
		return heap.Undefined
	}

	for ; body.Cdr().IsPair(); body = body.Cdr() {
		e.Eval(body.Car(), scope)
	}

	s.Status = NeedEval
	s.Env = scope

	return body.Car()
}

// applyMacro expands the macro m by running its body in the macro's own
// environment with the arguments bound unevaluated. The expansion is
// handed back to be evaluated in the caller's environment.
func (e *engine) applyMacro(m, args heap.Value, s *State) heap.Value {
	h := e.heap

	c := m.Target()
	bound, scope := heap.Null, heap.Null

	defer h.Release(h.Push(&c, &bound, &scope))

	bound = e.macroArgs(c.Params(), args)
	scope = env.Extend(h, c.Params(), bound, c.Env())

	v := heap.Undefined
	for body := c.Body(); body.IsPair(); body = body.Cdr() {
		v = e.Eval(body.Car(), scope)
	}

	s.Status = NeedEval

	return v
}

func (e *engine) applyPrimitive(p *heap.Primitive, args heap.Value, s *State, evalArgs bool) heap.Value {
	if fn, ok := p.Proc.(SpecialForm); ok {
		if !evalArgs {
			fault.Raise(fault.Eval, "can't apply/map a special form")
		}

		return fn(e, args, s)
	}

	n := -1

	switch p.Proc.(type) {
	case Expr0:
		n = 0
	case Expr1:
		n = 1
	case Expr2:
		n = 2
	case Expr3:
		n = 3
	case Expr4:
		n = 4
	case Expr5:
		n = 5
	}

	if n >= 0 {
		fixed(fault.Arity, p.Name, args, n, n)
	}

	defer e.heap.Release(e.heap.Push(&args))

	if evalArgs {
		args = e.evalList(args, s)
	}

	var v []heap.Value
	for l := args; l.IsPair(); l = l.Cdr() {
		v = append(v, l.Car())
	}

	switch fn := p.Proc.(type) {
	case ListExpr:
		return fn(e, args)
	case Expr0:
		return fn(e)
	case Expr1:
		return fn(e, v[0])
	case Expr2:
		return fn(e, v[0], v[1])
	case Expr3:
		return fn(e, v[0], v[1], v[2])
	case Expr4:
		return fn(e, v[0], v[1], v[2], v[3])
	case Expr5:
		return fn(e, v[0], v[1], v[2], v[3], v[4])
	}

	fault.Raise(fault.Eval, "%s: unsupported primitive type %T", p.Name, p.Proc)

	return heap.Undefined
}

// evalList evaluates each expression in args in s.Env and returns a new
// list of the results.
func (e *engine) evalList(args heap.Value, s *State) heap.Value {
	h := e.heap

	head, tail, v := heap.Null, heap.Null, heap.Null
	defer h.Release(h.Push(&args, &head, &tail, &v))

	for ; args.IsPair(); args = args.Cdr() {
		v = e.Eval(args.Car(), s.Env)

		p := h.Cons(v, heap.Null)
		if head == heap.Null {
			head = p
		} else {
			tail.SetCdr(p)
		}

		tail = p
	}

	if args != heap.Null {
		fault.Raise(fault.Syntax, "improper argument list")
	}

	if s.form.Valid() {
		e.current = s.form
	}

	return head
}

// macroArgs lines args up with params. Missing arguments are undefined
// and extra arguments are dropped, unless params ends in a rest symbol.
func (e *engine) macroArgs(params, args heap.Value) heap.Value {
	h := e.heap

	head, tail := heap.Null, heap.Null
	defer h.Release(h.Push(&params, &args, &head, &tail))

	for ; params.IsPair(); params = params.Cdr() {
		v := heap.Undefined
		if args.IsPair() {
			v = args.Car()
			args = args.Cdr()
		}

		p := h.Cons(v, heap.Null)
		if head == heap.Null {
			head = p
		} else {
			tail.SetCdr(p)
		}

		tail = p
	}

	if params == heap.Null {
		return head
	}

	if head == heap.Null {
		return args
	}

	tail.SetCdr(args)

	return head
}

// arity returns the number of required parameters and whether any number
// of further arguments is accepted.
func arity(params heap.Value) (int, bool) {
	n := 0
	for ; params.IsPair(); params = params.Cdr() {
		n++
	}

	return n, params != heap.Null
}
