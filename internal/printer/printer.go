// Released under an MIT license. See LICENSE.

// Package printer renders heap values as text.
//
// Output always terminates. A pair that is reached again while it is
// still being printed is written as #<cycle> instead of being followed.
package printer

import (
	"io"
	"strconv"
	"strings"

	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

type printer struct {
	strings.Builder

	path  map[heap.Value]struct{}
	quote bool
}

// Display writes v to w with strings written as their raw text.
func Display(w io.Writer, v heap.Value) error {
	_, err := io.WriteString(w, render(v, false))

	return err
}

// Write writes v to w in the form the reader accepts.
func Write(w io.Writer, v heap.Value) error {
	_, err := io.WriteString(w, render(v, true))

	return err
}

// String returns the written form of v.
func String(v heap.Value) string {
	return render(v, true)
}

func render(v heap.Value, quote bool) string {
	p := &printer{
		path:  map[heap.Value]struct{}{},
		quote: quote,
	}

	p.print(v)

	return p.String()
}

func (p *printer) print(v heap.Value) {
	if c, ok := v.Constant(); ok {
		p.WriteString(c.String())

		return
	}

	if !v.Valid() {
		p.WriteString("#<invalid>")

		return
	}

	switch v.Kind() {
	case heap.KindPair:
		p.list(v)
	case heap.KindInteger:
		p.WriteString(strconv.Itoa(v.Int()))
	case heap.KindSymbol:
		p.WriteString(v.Name())
	case heap.KindString:
		if p.quote {
			p.WriteString(strconv.Quote(v.Text()))
		} else {
			p.WriteString(v.Text())
		}
	case heap.KindPrimitive:
		p.WriteString("#<primitive " + v.Primitive().Name + ">")
	case heap.KindClosure:
		p.WriteString("#<closure ")
		p.print(v.Params())
		p.WriteString(">")
	case heap.KindMacro:
		p.WriteString("#<macro>")
	case heap.KindPort:
		p.WriteString("#<port " + v.PortName() + ">")
	default:
		p.WriteString("#<" + v.Kind().String() + ">")
	}
}

func (p *printer) list(v heap.Value) {
	if _, seen := p.path[v]; seen {
		p.WriteString("#<cycle>")

		return
	}

	entered := []heap.Value{}

	defer func() {
		for _, e := range entered {
			delete(p.path, e)
		}
	}()

	p.WriteByte('(')

	for {
		p.path[v] = struct{}{}
		entered = append(entered, v)

		p.print(v.Car())

		v = v.Cdr()
		if v == heap.Null {
			break
		}

		if !v.IsPair() {
			p.WriteString(" . ")
			p.print(v)

			break
		}

		if _, seen := p.path[v]; seen {
			p.WriteString(" . #<cycle>")

			break
		}

		p.WriteByte(' ')
	}

	p.WriteByte(')')
}
