// Released under an MIT license. See LICENSE.

package heap

// Collect runs a full, stop-the-world collection and returns the number
// of cells reclaimed.
//
// The steps run in a fixed order:
//
//  1. mark from the roots;
//  2. drop symbol table links whose symbol was not marked, marking the
//     links that remain;
//  3. sweep, which clears ordinary marks and reclaims every unmarked cell;
//  4. grow the heap by one page if the yield was low.
//
// Step 2 must see the marks left by step 1 and must run before step 3
// clears them, otherwise the table would keep links to reclaimed symbols.
func (h *T) Collect() int {
	h.collections++

	h.markRoots()
	h.compactSymbols()

	n := h.sweep()
	if n < h.opts.LowWater {
		h.grow()
	}

	h.current = h.pages
	h.reclaimed = n

	logger.Printf(
		"collection %d: reclaimed %d, free %d, pages %d",
		h.collections, n, h.free, h.npages,
	)

	return n
}

func (h *T) markRoots() {
	for _, p := range h.roots {
		if p != nil {
			h.mark(*p)
		}
	}

	for _, v := range h.pins {
		h.mark(v)
	}

	// A protected cell is already marked so mark would stop at it.
	for _, v := range h.protected {
		h.trace(v.cell)
	}

	for _, chain := range h.table {
		for l := chain; l.cell != nil; l = l.cell.b {
			sym := l.cell.a
			if sym.cell.b != Unbound {
				h.mark(sym)
			}
		}
	}
}

// mark marks v and everything reachable from it. Edges that end a cell's
// outgoing references (cdr, closure environment, macro target, symbol
// value) are followed by looping rather than recursing.
func (h *T) mark(v Value) {
	for {
		c := v.cell
		if c == nil || c.gen != v.gen || c.kind == KindFree || c.mark != white {
			return
		}

		c.mark = black

		switch c.kind {
		case KindPair:
			h.mark(c.a)
			v = c.b
		case KindSymbol:
			v = c.b
		case KindClosure:
			h.mark(c.a)
			h.mark(c.b)
			v = c.c
		case KindMacro:
			v = c.a
		default:
			return
		}
	}
}

// trace marks everything directly reachable from c.
func (h *T) trace(c *Cell) {
	switch c.kind {
	case KindPair:
		h.mark(c.a)
		h.mark(c.b)
	case KindSymbol:
		h.mark(c.b)
	case KindClosure:
		h.mark(c.a)
		h.mark(c.b)
		h.mark(c.c)
	case KindMacro:
		h.mark(c.a)
	}
}

func (h *T) compactSymbols() {
	for i, chain := range h.table {
		kept := Null

		var last *Cell

		for l := chain; l.cell != nil; {
			link := l.cell
			next := link.b

			if link.a.cell.mark != white {
				if link.mark == white {
					link.mark = black
				}

				link.b = Null

				if last == nil {
					kept = l
				} else {
					last.b = l
				}

				last = link
			}

			l = next
		}

		h.table[i] = kept
	}
}

func (h *T) sweep() int {
	n := 0

	for p := h.pages; p != nil; p = p.next {
		for i := range p.cells {
			c := &p.cells[i]

			switch {
			case c.kind == KindFree:
			case c.mark == forever:
			case c.mark == black:
				c.mark = white
			default:
				h.finalize(c)
				c.gen++
				p.push(int32(i))
				h.free++
				n++
			}
		}
	}

	return n
}

func (h *T) grow() {
	if h.opts.MaxPages > 0 && h.npages >= h.opts.MaxPages {
		logger.Printf("low yield but page limit %d reached", h.opts.MaxPages)

		return
	}

	h.addPage()
}
