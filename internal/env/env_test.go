// Released under an MIT license. See LICENSE.

package env_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/michaelmacinnis/cellscheme/internal/env"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault.Recovered(r)
		}
	}()

	fn()

	return nil
}

func str(v heap.Value) string {
	switch {
	case v.IsSymbol():
		return v.Name()
	case v.IsInteger():
		return strconv.Itoa(v.Int())
	case v.IsPair():
		var parts []string
		for ; v.IsPair(); v = v.Cdr() {
			parts = append(parts, str(v.Car()))
		}

		return "(" + strings.Join(parts, " ") + ")"
	case v == heap.Null:
		return "()"
	}

	return "?"
}

type fixture struct {
	h       *heap.T
	x, y, z heap.Value
}

func setup(t *testing.T) *fixture {
	t.Helper()

	h := heap.New(heap.Options{})
	t.Cleanup(h.Close)

	return &fixture{
		h: h,
		x: h.Intern("x"),
		y: h.Intern("y"),
		z: h.Intern("z"),
	}
}

func (f *fixture) ints(ns ...int) heap.Value {
	vs := make([]heap.Value, len(ns))
	for i, n := range ns {
		vs[i] = f.h.Integer(n)
	}

	return f.h.List(vs...)
}

func TestFrameBindsPositionally(t *testing.T) {
	f := setup(t)

	e := env.Extend(f.h, f.h.List(f.x, f.y), f.ints(1, 2), heap.Null)

	if got := env.Value(f.x, e).Int(); got != 1 {
		t.Fatalf("x: want 1, got %d", got)
	}

	if got := env.Value(f.y, e).Int(); got != 2 {
		t.Fatalf("y: want 2, got %d", got)
	}
}

func TestInnerFrameShadowsOuter(t *testing.T) {
	f := setup(t)

	outer := env.Extend(f.h, f.h.List(f.x), f.ints(1), heap.Null)
	inner := env.Extend(f.h, f.h.List(f.x), f.ints(2), outer)

	if got := env.Value(f.x, inner).Int(); got != 2 {
		t.Fatalf("inner x: want 2, got %d", got)
	}

	if got := env.Value(f.x, outer).Int(); got != 1 {
		t.Fatalf("outer x: want 1, got %d", got)
	}
}

func TestRestParameterBindsRemainingArguments(t *testing.T) {
	f := setup(t)

	tests := []struct {
		params heap.Value
		args   []int
		want   string
	}{
		{f.z, []int{1, 2, 3}, "(1 2 3)"},
		{f.h.Cons(f.x, f.z), []int{1, 2, 3}, "(2 3)"},
		{f.h.Cons(f.x, f.h.Cons(f.y, f.z)), []int{1, 2}, "()"},
	}

	for _, tt := range tests {
		e := env.Extend(f.h, tt.params, f.ints(tt.args...), heap.Null)

		if got := str(env.Value(f.z, e)); got != tt.want {
			t.Errorf("%s: want %s, got %s", str(tt.params), tt.want, got)
		}
	}
}

func TestFallsBackToGlobal(t *testing.T) {
	f := setup(t)

	f.y.SetGlobal(f.h.Integer(7))

	e := env.Extend(f.h, f.h.List(f.x), f.ints(1), heap.Null)

	if got := env.Value(f.y, e).Int(); got != 7 {
		t.Fatalf("want 7, got %d", got)
	}
}

func TestUnboundIsAnError(t *testing.T) {
	f := setup(t)

	err := catch(func() { env.Value(f.z, heap.Null) })
	if !fault.Is(err, fault.Unbound) {
		t.Fatalf("want unbound variable error, got %v", err)
	}

	if msg := fault.Message(err); msg != "invalid reference: z" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAssignUpdatesInnermostBinding(t *testing.T) {
	f := setup(t)

	outer := env.Extend(f.h, f.h.List(f.x), f.ints(1), heap.Null)
	inner := env.Extend(f.h, f.h.List(f.x), f.ints(2), outer)

	env.Assign(f.x, f.h.Integer(3), inner)

	if got := env.Value(f.x, inner).Int(); got != 3 {
		t.Fatalf("inner x: want 3, got %d", got)
	}

	if got := env.Value(f.x, outer).Int(); got != 1 {
		t.Fatalf("outer x: want 1, got %d", got)
	}

	env.Assign(f.y, f.h.Integer(4), inner)

	if got := f.y.Global().Int(); got != 4 {
		t.Fatalf("global y: want 4, got %d", got)
	}
}

func TestAssignRestParameter(t *testing.T) {
	f := setup(t)

	e := env.Extend(f.h, f.h.Cons(f.x, f.z), f.ints(1), heap.Null)

	env.Assign(f.z, f.ints(5, 6), e)

	if got := str(env.Value(f.z, e)); got != "(5 6)" {
		t.Fatalf("want (5 6), got %s", got)
	}

	if got := env.Value(f.x, e).Int(); got != 1 {
		t.Fatalf("x: want 1, got %d", got)
	}
}

func TestDefine(t *testing.T) {
	f := setup(t)

	env.Define(f.h, f.x, f.h.Integer(1), heap.Null)

	if got := f.x.Global().Int(); got != 1 {
		t.Fatalf("top level: want 1, got %d", got)
	}

	e := env.Extend(f.h, f.h.Cons(f.y, f.z), f.ints(2, 3), heap.Null)

	env.Define(f.h, f.x, f.h.Integer(4), e)

	if got := env.Value(f.x, e).Int(); got != 4 {
		t.Fatalf("local x: want 4, got %d", got)
	}

	if got := f.x.Global().Int(); got != 1 {
		t.Fatalf("global x changed: got %d", got)
	}

	if got := env.Value(f.y, e).Int(); got != 2 {
		t.Fatalf("y: want 2, got %d", got)
	}

	if got := str(env.Value(f.z, e)); got != "(3)" {
		t.Fatalf("z: want (3), got %s", got)
	}

	env.Define(f.h, f.y, f.h.Integer(5), e)

	if got := env.Value(f.y, e).Int(); got != 5 {
		t.Fatalf("redefined y: want 5, got %d", got)
	}
}

func TestDump(t *testing.T) {
	f := setup(t)

	e := env.Extend(f.h, f.h.Cons(f.x, f.z), f.ints(1, 2), heap.Null)

	var b bytes.Buffer
	env.Dump(&b, e, str)

	want := "env-------------------\nx -> 1\nz -> (2)\nenv-end---------------\n"
	if got := b.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
