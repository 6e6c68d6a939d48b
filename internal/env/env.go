// Released under an MIT license. See LICENSE.

// Package env implements environments as chains of frames.
//
// An environment is a list of frames ending in heap.Null, the top level.
// A frame is a pair (params . args): params is the parameter list of the
// closure that created the frame and args the matching argument list.
// When params is improper its final symbol binds whatever arguments are
// left over.
//
// Top-level bindings are not kept in any frame. They live in the value
// cell of the symbol itself.
package env

import (
	"fmt"
	"io"

	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

// Ref is a reference to the storage slot holding a variable's value.
type Ref struct {
	pair heap.Value
	car  bool
}

// Get returns the value stored in the slot.
func (r Ref) Get() heap.Value {
	if r.car {
		return r.pair.Car()
	}

	return r.pair.Cdr()
}

// Set replaces the value stored in the slot.
func (r Ref) Set(v heap.Value) {
	if r.car {
		r.pair.SetCar(v)
	} else {
		r.pair.SetCdr(v)
	}
}

// Extend returns a new environment with a frame binding params to args in
// front of parent.
func Extend(h *heap.T, params, args, parent heap.Value) heap.Value {
	defer h.Release(h.Push(&parent))

	return h.Cons(h.Cons(params, args), parent)
}

// Lookup finds the innermost slot binding sym in e. The boolean is false
// if no frame binds sym.
func Lookup(sym, e heap.Value) (Ref, bool) {
	for ; e.IsPair(); e = e.Cdr() {
		if r, ok := lookupFrame(sym, e.Car()); ok {
			return r, true
		}
	}

	return Ref{}, false
}

// Value returns the value of sym in e, falling back to the symbol's global
// value cell. An unbound variable raises fault.Unbound.
func Value(sym, e heap.Value) heap.Value {
	if r, ok := Lookup(sym, e); ok {
		return r.Get()
	}

	v := sym.Global()
	if v == heap.Unbound {
		fault.Raise(fault.Unbound, "invalid reference: %s", sym.Name())
	}

	return v
}

// Assign sets the innermost binding of sym in e to v, or the symbol's
// global value cell if no frame binds it.
func Assign(sym, v, e heap.Value) {
	if r, ok := Lookup(sym, e); ok {
		r.Set(v)
	} else {
		sym.SetGlobal(v)
	}
}

// Define binds sym to v in the innermost frame of e, shadowing any outer
// binding. At the top level it sets the symbol's global value cell.
func Define(h *heap.T, sym, v, e heap.Value) {
	if !e.IsPair() {
		sym.SetGlobal(v)

		return
	}

	frame := e.Car()

	if r, ok := lookupFrame(sym, frame); ok {
		r.Set(v)

		return
	}

	defer h.Release(h.Push(&sym, &v, &frame))

	params := h.Cons(sym, frame.Car())
	frame.SetCar(params)
	frame.SetCdr(h.Cons(v, frame.Cdr()))
}

// Dump writes the bindings of every frame in e to w, innermost first.
func Dump(w io.Writer, e heap.Value, str func(heap.Value) string) {
	fmt.Fprintln(w, "env-------------------")

	for ; e.IsPair(); e = e.Cdr() {
		frame := e.Car()

		params, args := frame.Car(), frame.Cdr()
		for ; params.IsPair(); params = params.Cdr() {
			fmt.Fprintf(w, "%s -> ", str(params.Car()))

			if args.IsPair() {
				fmt.Fprintln(w, str(args.Car()))
				args = args.Cdr()
			} else {
				fmt.Fprintln(w, "#<missing>")
			}
		}

		if params != heap.Null {
			fmt.Fprintf(w, "%s -> %s\n", str(params), str(args))
		}
	}

	fmt.Fprintln(w, "env-end---------------")
}

// lookupFrame walks params and args in lockstep. The slot for the rest of
// the arguments is always the cdr of the previous argument pair, starting
// with the cdr of the frame itself.
func lookupFrame(sym, frame heap.Value) (Ref, bool) {
	rest := Ref{pair: frame}

	params := frame.Car()
	for ; params.IsPair(); params = params.Cdr() {
		args := rest.Get()
		if !args.IsPair() {
			return Ref{}, false
		}

		if params.Car() == sym {
			return Ref{pair: args, car: true}, true
		}

		rest = Ref{pair: args}
	}

	if params == sym {
		return rest, true
	}

	return Ref{}, false
}
