// Released under an MIT license. See LICENSE.

package fault_test

import (
	"errors"
	"testing"

	"github.com/joomcode/errorx"

	"github.com/michaelmacinnis/cellscheme/internal/fault"
)

func recovered(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault.Recovered(r)
		}
	}()

	fn()

	return nil
}

func TestRaiseIsRecovered(t *testing.T) {
	err := recovered(func() {
		fault.Raise(fault.Arity, "%s: expected %d", "car", 1)
	})

	if !fault.Is(err, fault.Arity) {
		t.Fatalf("got %v, want an arity error", err)
	}

	if got := fault.Message(err); got != "car: expected 1" {
		t.Errorf("got message %q", got)
	}
}

func TestAnnotateKeepsFirstExpression(t *testing.T) {
	err := recovered(func() {
		fault.Raise(fault.Type, "expected pair")
	})

	err = fault.Annotate(fault.Annotate(err, "(car 1)"), "(f 1)")

	if x, ok := fault.Expression(err); !ok || x != "(car 1)" {
		t.Errorf("got expression %v, want (car 1)", x)
	}

	err = fault.Annotate(fault.New(fault.Unbound, "invalid reference: x"), "x")

	if x, ok := fault.Expression(err); !ok || x != "x" {
		t.Errorf("got expression %v, want x", x)
	}
}

func TestRethrowDoesNotWrap(t *testing.T) {
	first := recovered(func() {
		fault.Raise(fault.Unbound, "invalid reference: %s", "nope")
	})

	err := recovered(func() { fault.Throw(first) })

	if got := err.Error(); got != first.Error() {
		t.Errorf("got %q, want %q", got, first.Error())
	}

	if got := fault.Message(err); got != "invalid reference: nope" {
		t.Errorf("got message %q", got)
	}
}

func TestPanicWrapperIsRemoved(t *testing.T) {
	err := recovered(func() {
		errorx.Panic(fault.New(fault.Eval, "/: division by zero"))
	})

	if !fault.Is(err, fault.Eval) {
		t.Fatalf("got %v, want an eval error", err)
	}

	if got := fault.Message(err); got != "/: division by zero" {
		t.Errorf("got message %q", got)
	}
}

func TestForeignPanicsPropagate(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("got %v, want boom", r)
		}
	}()

	recovered(func() { panic("boom") })

	t.Error("panic was swallowed")
}

func TestForeignErrorsPropagate(t *testing.T) {
	other := errorx.NewNamespace("other").NewType("thing")

	defer func() {
		if recover() == nil {
			t.Error("panic was swallowed")
		}
	}()

	recovered(func() { errorx.Panic(other.New("not ours")) })
}

func TestMessageOfPlainError(t *testing.T) {
	if got := fault.Message(errors.New("plain")); got != "plain" {
		t.Errorf("got %q", got)
	}

	if _, ok := fault.Expression(errors.New("plain")); ok {
		t.Error("plain errors have no expression")
	}
}
