// Released under an MIT license. See LICENSE.

package heap

import (
	"os"

	"github.com/michaelmacinnis/cellscheme/internal/fault"
)

// Constant identifies one of the fixed, never-allocated values.
type Constant uint8

const (
	notConstant Constant = iota
	constNull
	constFalse
	constTrue
	constEOF
	constUndefined
	constUnbound
)

// String returns the printed representation of c.
func (c Constant) String() string {
	switch c {
	case constNull:
		return "()"
	case constFalse:
		return "#f"
	case constTrue:
		return "#t"
	case constEOF:
		return "#eof"
	case constUndefined:
		return "#undefined"
	case constUnbound:
		return "#unbound"
	}

	return "#<not a constant>"
}

// Value is either a constant or a reference to a heap cell.
//
// A reference remembers the generation of the cell it was made from. Each
// time the collector reclaims a cell its generation changes, so a reference
// that outlives its cell is detected on use instead of silently reading
// whatever was allocated there next.
//
// Values are comparable: two references are == exactly when they denote
// the same cell (eq?).
type Value struct {
	c    Constant
	gen  uint32
	cell *Cell
}

//nolint:gochecknoglobals
var (
	// Null is the empty list. It also marks the top-level environment.
	Null = Value{c: constNull}

	// False is #f, the only false value.
	False = Value{c: constFalse}

	// True is #t.
	True = Value{c: constTrue}

	// EOF is returned by the reader when its input is exhausted.
	EOF = Value{c: constEOF}

	// Undefined is the value of forms that produce nothing useful.
	Undefined = Value{c: constUndefined}

	// Unbound is held by the value cell of a symbol with no global binding.
	Unbound = Value{c: constUnbound}
)

// Bool converts a Go boolean into #t or #f.
func Bool(b bool) Value {
	if b {
		return True
	}

	return False
}

// Constant returns the constant v denotes, and whether v is a constant.
func (v Value) Constant() (Constant, bool) {
	return v.c, v.c != notConstant
}

// IsConstant returns true if v is one of the fixed constants.
func (v Value) IsConstant() bool {
	return v.c != notConstant
}

// IsNull returns true if v is the empty list.
func (v Value) IsNull() bool {
	return v == Null
}

// IsTrue returns true for every value except #f.
func (v Value) IsTrue() bool {
	return v != False
}

// Valid returns false for the zero Value.
func (v Value) Valid() bool {
	return v.c != notConstant || v.cell != nil
}

// Kind returns the kind of cell v refers to, or KindConstant.
func (v Value) Kind() Kind {
	if v.cell == nil {
		return KindConstant
	}

	return v.ref().kind
}

// IsPair returns true if v is a cons cell.
func (v Value) IsPair() bool { return v.is(KindPair) }

// IsInteger returns true if v is an integer.
func (v Value) IsInteger() bool { return v.is(KindInteger) }

// IsSymbol returns true if v is a symbol.
func (v Value) IsSymbol() bool { return v.is(KindSymbol) }

// IsString returns true if v is a string.
func (v Value) IsString() bool { return v.is(KindString) }

// IsPrimitive returns true if v is a native procedure or special form.
func (v Value) IsPrimitive() bool { return v.is(KindPrimitive) }

// IsClosure returns true if v is a closure.
func (v Value) IsClosure() bool { return v.is(KindClosure) }

// IsMacro returns true if v is a macro.
func (v Value) IsMacro() bool { return v.is(KindMacro) }

// IsPort returns true if v is a port.
func (v Value) IsPort() bool { return v.is(KindPort) }

// IsProcedure returns true if v can appear at the head of a combination.
func (v Value) IsProcedure() bool {
	switch v.Kind() {
	case KindPrimitive, KindClosure, KindMacro:
		return true
	}

	return false
}

// Car returns the head of the pair v.
func (v Value) Car() Value { return v.as(KindPair).a }

// Cdr returns the tail of the pair v.
func (v Value) Cdr() Value { return v.as(KindPair).b }

// SetCar replaces the head of the pair v.
func (v Value) SetCar(x Value) { v.as(KindPair).a = x }

// SetCdr replaces the tail of the pair v.
func (v Value) SetCdr(x Value) { v.as(KindPair).b = x }

// Cadr returns the car of the cdr of v.
func (v Value) Cadr() Value { return v.Cdr().Car() }

// Cddr returns the cdr of the cdr of v.
func (v Value) Cddr() Value { return v.Cdr().Cdr() }

// Int returns the value of the integer v.
func (v Value) Int() int { return v.as(KindInteger).n }

// Name returns the name of the symbol v.
func (v Value) Name() string { return v.as(KindSymbol).s }

// Global returns the contents of the value cell of the symbol v.
func (v Value) Global() Value { return v.as(KindSymbol).b }

// SetGlobal replaces the contents of the value cell of the symbol v.
func (v Value) SetGlobal(x Value) { v.as(KindSymbol).b = x }

// Text returns the characters of the string v.
func (v Value) Text() string { return v.as(KindString).s }

// Primitive returns the native procedure v wraps.
func (v Value) Primitive() *Primitive { return v.as(KindPrimitive).prim }

// Params returns the parameter list of the closure v.
func (v Value) Params() Value { return v.as(KindClosure).a }

// Body returns the body forms of the closure v.
func (v Value) Body() Value { return v.as(KindClosure).b }

// Env returns the environment captured by the closure v.
func (v Value) Env() Value { return v.as(KindClosure).c }

// Target returns the closure wrapped by the macro v.
func (v Value) Target() Value { return v.as(KindMacro).a }

// File returns the file owned by the port v. It is nil once closed.
func (v Value) File() *os.File { return v.as(KindPort).file }

// PortName returns the name the port v was opened with.
func (v Value) PortName() string { return v.as(KindPort).s }

// ClosePort closes the file owned by the port v.
func (v Value) ClosePort() error {
	c := v.as(KindPort)
	if c.file == nil {
		return nil
	}

	err := c.file.Close()
	c.file = nil

	return err
}

// Length returns the number of pairs in the list v.
func (v Value) Length() int {
	n := 0
	for ; v.IsPair(); v = v.Cdr() {
		n++
	}

	return n
}

// IsList returns true if v is a proper list.
func (v Value) IsList() bool {
	for ; v.IsPair(); v = v.Cdr() {
	}

	return v == Null
}

func (v Value) as(k Kind) *Cell {
	if v.cell == nil {
		fault.Raise(fault.Type, "expected %s, got %s", k, v.c)
	}

	c := v.ref()
	if c.kind != k {
		fault.Raise(fault.Type, "expected %s, got %s", k, c.kind)
	}

	return c
}

func (v Value) is(k Kind) bool {
	return v.cell != nil && v.ref().kind == k
}

func (v Value) ref() *Cell {
	c := v.cell
	if c == nil {
		fault.Raise(fault.Type, "expected a cell, got a constant")
	}

	if c.gen != v.gen {
		fault.Raise(fault.Stale, "reference to reclaimed cell")
	}

	return c
}
