// Released under an MIT license. See LICENSE.

package heap

import "os"

// Kind tags the payload held by a cell.
type Kind uint8

// A cell's kind never changes once constructed, except that a reclaimed
// cell becomes KindFree until it is handed out again.
const (
	KindFree Kind = iota
	KindPair
	KindInteger
	KindSymbol
	KindString
	KindPrimitive
	KindClosure
	KindMacro
	KindPort
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free cell"
	case KindPair:
		return "pair"
	case KindInteger:
		return "integer"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindPrimitive:
		return "primitive"
	case KindClosure:
		return "closure"
	case KindMacro:
		return "macro"
	case KindPort:
		return "port"
	case KindConstant:
		return "constant"
	}

	return "unknown"
}

type mark uint8

const (
	white   mark = iota // Unreached.
	black               // Reached during the current collection.
	forever             // Protected. Never cleared.
)

// Primitive is a native procedure. Proc is interpreted by the evaluator;
// the heap only stores it.
type Primitive struct {
	Name string
	Proc interface{}
}

// Cell is the unit of allocation and collection.
//
//	kind       a         b       c     n    s     prim  file
//	pair       car       cdr
//	integer                            n
//	symbol               value              name
//	string                                  text
//	primitive                                     prim
//	closure    params    body    env
//	macro      closure
//	port                                    name        file
//	free                                n = ordinal
type Cell struct {
	kind Kind
	mark mark
	gen  uint32

	a, b, c Value

	n    int
	s    string
	prim *Primitive
	file *os.File
}

// Ordinal is the position of a free cell in its page's free list.
func (c *Cell) Ordinal() int {
	if c.kind != KindFree {
		return 0
	}

	return c.n
}

func (h *T) finalize(c *Cell) {
	if c.kind == KindPort && c.file != nil {
		_ = c.file.Close()

		if h.opts.OnPortClosed != nil {
			h.opts.OnPortClosed(c.file)
		}
	}

	*c = Cell{gen: c.gen}
}
