// Released under an MIT license. See LICENSE.

// Package heap provides the cell allocator and mark-and-sweep collector
// that back every runtime value.
//
// Memory is organised in pages of cells. Allocation takes the first free
// cell found from a search cursor that only moves forward until the next
// collection. When no page has a free cell the heap collects once and
// tries again; if that fails too the heap is exhausted.
//
// The collector is exact: the roots are the slots registered with Push,
// values protected with Protect, and the bound symbols of the symbol
// table.
package heap

import (
	"fmt"
	"os"
	"strings"

	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/logutil"
)

// Defaults used for zero Options fields.
const (
	DefaultPageCells = 5000
	DefaultLowWater  = 600
	DefaultTableSize = 211
)

//nolint:gochecknoglobals
var logger = logutil.GetLogger("[heap] ")

// Options configures a heap.
type Options struct {
	PageCells    int // Usable cells per page.
	InitialPages int // Pages allocated up front.
	LowWater     int // A collection reclaiming fewer cells adds a page.
	MaxPages     int // Zero means unlimited.
	TableSize    int // Buckets in the symbol table.

	// OnExhausted is called when an allocation fails even after a
	// collection. It should not return. The default reports the
	// condition and exits the process.
	OnExhausted func()

	// OnPortClosed, if set, is called with the file of every port the heap
	// closes when the port is reclaimed or the heap is closed.
	OnPortClosed func(f *os.File)
}

// Stats is a snapshot of the heap's bookkeeping.
type Stats struct {
	Pages       int
	Cells       int
	Free        int
	Collections int
	Reclaimed   int // By the most recent collection.
}

// T (heap) owns every cell.
type T struct {
	opts Options

	pages   *page
	last    *page
	current *page
	npages  int
	free    int

	roots     []*Value
	pins      []Value
	protected []Value
	table     []Value

	collections int
	reclaimed   int
}

// New creates a heap.
func New(opts Options) *T {
	if opts.PageCells <= 0 {
		opts.PageCells = DefaultPageCells
	}

	if opts.InitialPages <= 0 {
		opts.InitialPages = 1
	}

	if opts.LowWater <= 0 {
		opts.LowWater = DefaultLowWater
	}

	if opts.TableSize <= 0 {
		opts.TableSize = DefaultTableSize
	}

	if opts.OnExhausted == nil {
		opts.OnExhausted = exit
	}

	h := &T{opts: opts}

	h.table = make([]Value, opts.TableSize)
	for i := range h.table {
		h.table[i] = Null
	}

	for i := 0; i < opts.InitialPages; i++ {
		h.addPage()
	}

	h.current = h.pages

	return h
}

// Close finalizes every live cell, closing any open ports, and releases
// all pages. The heap must not be used afterwards.
func (h *T) Close() {
	for p := h.pages; p != nil; p = p.next {
		for i := range p.cells {
			if p.cells[i].kind != KindFree {
				h.finalize(&p.cells[i])
			}
		}
	}

	h.pages, h.last, h.current = nil, nil, nil
	h.npages, h.free = 0, 0
	h.roots, h.pins, h.protected = nil, nil, nil
}

// Stats returns a snapshot of the heap's bookkeeping.
func (h *T) Stats() Stats {
	return Stats{
		Pages:       h.npages,
		Cells:       h.npages * h.opts.PageCells,
		Free:        h.free,
		Collections: h.collections,
		Reclaimed:   h.reclaimed,
	}
}

// Cons allocates a pair.
func (h *T) Cons(car, cdr Value) Value {
	c := h.allocate(car, cdr)
	c.a, c.b = car, cdr

	return h.construct(c, KindPair)
}

// Integer allocates an integer.
func (h *T) Integer(n int) Value {
	c := h.allocate()
	c.n = n

	return h.construct(c, KindInteger)
}

// Symbol allocates an uninterned symbol. Use Intern for symbols that
// should be shared by name.
func (h *T) Symbol(name string, value Value) Value {
	c := h.allocate(value)
	c.s = strings.Clone(name)
	c.b = value

	return h.construct(c, KindSymbol)
}

// String allocates a string holding its own copy of s.
func (h *T) String(s string) Value {
	c := h.allocate()
	c.s = strings.Clone(s)

	return h.construct(c, KindString)
}

// Closure allocates a closure.
func (h *T) Closure(params, body, env Value) Value {
	c := h.allocate(params, body, env)
	c.a, c.b, c.c = params, body, env

	return h.construct(c, KindClosure)
}

// Macro allocates a macro wrapping closure.
func (h *T) Macro(closure Value) Value {
	c := h.allocate(closure)
	c.a = closure

	return h.construct(c, KindMacro)
}

// Port allocates a port that owns f. The file is closed when the port is
// closed, collected, or when the heap is closed.
func (h *T) Port(name string, f *os.File) Value {
	c := h.allocate()
	c.s = strings.Clone(name)
	c.file = f

	return h.construct(c, KindPort)
}

// Primitive creates a cell for p outside of the pages. Primitive cells
// are never collected.
func (h *T) Primitive(p *Primitive) Value {
	c := &Cell{kind: KindPrimitive, mark: forever, prim: p}

	return Value{cell: c}
}

// List allocates a proper list of vs.
func (h *T) List(vs ...Value) Value {
	ptrs := make([]*Value, len(vs))
	for i := range vs {
		ptrs[i] = &vs[i]
	}

	defer h.Release(h.Push(ptrs...))

	l := Null
	for i := len(vs) - 1; i >= 0; i-- {
		l = h.Cons(vs[i], l)
	}

	return l
}

// allocate returns a cell ready for construction. The values in pins are
// treated as roots if a collection is needed.
func (h *T) allocate(pins ...Value) *Cell {
	c := h.search()
	if c == nil {
		h.pins = pins
		h.Collect()
		h.pins = nil

		c = h.search()
		if c == nil {
			logger.Printf("exhausted: %d pages, %d collections", h.npages, h.collections)
			h.opts.OnExhausted()
			fault.Raise(fault.OutOfMemory, "out of memory")
		}
	}

	h.free--

	return c
}

func (h *T) addPage() {
	p := newPage(h.npages, h.opts.PageCells)

	if h.last == nil {
		h.pages = p
	} else {
		h.last.next = p
	}

	h.last = p
	h.npages++
	h.free += h.opts.PageCells

	logger.Printf("page %d added, %d cells free", p.index, h.free)
}

func (h *T) construct(c *Cell, k Kind) Value {
	c.kind = k
	c.mark = white

	return Value{gen: c.gen, cell: c}
}

// search scans forward from the cursor. Pages with empty free lists are
// skipped for good; only a collection moves the cursor back.
func (h *T) search() *Cell {
	for h.current != nil {
		if c := h.current.pop(); c != nil {
			return c
		}

		h.current = h.current.next
	}

	return nil
}

func exit() {
	fmt.Fprintln(os.Stderr, "out of memory")
	os.Exit(1)
}
