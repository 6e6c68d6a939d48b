// Released under an MIT license. See LICENSE.

// Package reader turns scheme source text into heap values.
//
// The reader collects tokens until they make up a complete datum and only
// then builds it on the heap. Between calls to Next it holds tokens, not
// heap values, so the collector never needs to know about it.
package reader

import (
	"strconv"

	"github.com/michaelmacinnis/adapted"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/reader/lexer"
	"github.com/michaelmacinnis/cellscheme/internal/reader/token"
)

// T (reader) encapsulates the lexer and the datum builder.
type T struct {
	h       *heap.T
	lexer   *lexer.T
	pending []*token.T

	depth int
	index int
	ready bool
}

type reader = T

// New creates a new reader that allocates on h. The name labels source
// locations in error messages.
func New(h *heap.T, name string) *T {
	return &T{
		h:     h,
		lexer: lexer.New(name),
	}
}

// ReadAll reads every datum in text and returns them as a list.
func ReadAll(h *heap.T, name, text string) (heap.Value, error) {
	r := New(h, name)
	r.Scan(text)
	r.Finish()

	head, tail, v := heap.Null, heap.Null, heap.Null
	defer h.Release(h.Push(&head, &tail, &v))

	for {
		var err error

		v, _, err = r.Next()
		if err != nil {
			return heap.Null, err
		}

		if v == heap.EOF {
			return head, nil
		}

		p := h.Cons(v, heap.Null)
		if head == heap.Null {
			head = p
		} else {
			tail.SetCdr(p)
		}

		tail = p
	}
}

// Discard drops any partially read datum and all buffered text.
func (r *reader) Discard() {
	r.lexer.Discard()
	r.reset()
}

// Finish tells the reader that no more text is coming.
func (r *reader) Finish() {
	r.lexer.Finish()
}

// Pending returns true if a datum has been started but not completed.
func (r *reader) Pending() bool {
	return len(r.pending) > 0 || r.lexer.Partial()
}

// Scan passes text to the reader.
func (r *reader) Scan(text string) {
	r.lexer.Scan(text)
}

// Next returns the next complete datum. When more text is needed to
// complete it, ok is false and err is nil. After Finish, the end of the
// input is reported as heap.EOF.
//
// On a syntax error the offending datum and the rest of the buffered text
// are discarded.
//
// The returned value is not rooted. The caller must root it before
// allocating.
func (r *reader) Next() (v heap.Value, ok bool, err error) {
	for !r.ready {
		t := r.lexer.Token()
		if t == nil {
			switch {
			case !r.lexer.Finished():
				return heap.Value{}, false, nil
			case len(r.pending) == 0:
				return heap.EOF, true, nil
			}

			r.reset()

			return heap.Value{}, false, fault.New(fault.Syntax, "unexpected end of input")
		}

		r.add(t)
	}

	defer r.reset()

	defer func() {
		if rec := recover(); rec != nil {
			err = fault.Recovered(rec)
			r.lexer.Discard()
		}
	}()

	return r.datum(), true, nil
}

func (r *reader) add(t *token.T) {
	r.pending = append(r.pending, t)

	switch t.Class() {
	case '\'':
		return
	case '(':
		r.depth++

		return
	case ')':
		r.depth--
	}

	if r.depth <= 0 {
		r.ready = true
	}
}

func (r *reader) reset() {
	r.pending = nil
	r.depth = 0
	r.index = 0
	r.ready = false
}

func (r *reader) atom(t *token.T) heap.Value {
	s := t.Value()

	if integer(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			raise(t, "integer out of range: %s", s)
		}

		return r.h.Integer(n)
	}

	return r.h.Intern(s)
}

func (r *reader) datum() heap.Value {
	t := r.take()

	switch t.Class() {
	case '(':
		return r.list()
	case '\'':
		v := r.datum()
		defer r.h.Release(r.h.Push(&v))

		return r.h.List(r.h.Intern("quote"), v)
	case token.Atom:
		return r.atom(t)
	case token.Hash:
		switch t.Value() {
		case "#t":
			return heap.True
		case "#f":
			return heap.False
		}

		raise(t, "bad syntax %s", t.Value())
	case token.String:
		text := t.Value()

		s, err := adapted.ActualBytes(text[1 : len(text)-1])
		if err != nil {
			raise(t, "bad string %s: %v", text, err)
		}

		return r.h.String(s)
	case token.Error:
		raise(t, "%s", t.Value())
	}

	raise(t, "unexpected %s", t.Value())

	return heap.Null
}

func (r *reader) list() heap.Value {
	h := r.h

	head, tail, v := heap.Null, heap.Null, heap.Null
	defer h.Release(h.Push(&head, &tail, &v))

	for {
		switch t := r.peek(); t.Class() {
		case ')':
			r.take()

			return head
		case '.':
			r.take()

			if head == heap.Null {
				raise(t, "unexpected .")
			}

			v = r.datum()
			tail.SetCdr(v)

			if c := r.take(); !c.Is(')') {
				raise(c, "expected ) after dotted tail, got %s", c.Value())
			}

			return head
		}

		v = r.datum()

		p := h.Cons(v, heap.Null)
		if head == heap.Null {
			head = p
		} else {
			tail.SetCdr(p)
		}

		tail = p
	}
}

func (r *reader) peek() *token.T {
	if r.index >= len(r.pending) {
		last := r.pending[len(r.pending)-1]
		raise(last, "unexpected end of input")
	}

	return r.pending[r.index]
}

func (r *reader) take() *token.T {
	t := r.peek()
	r.index++

	return t
}

// integer returns true if s is an optional sign followed by digits.
func integer(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}

	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func raise(t *token.T, format string, args ...interface{}) {
	fault.Raise(fault.Syntax, t.Source().String()+": "+format, args...)
}
