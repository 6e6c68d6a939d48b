// Released under an MIT license. See LICENSE.

package heap

// A page is a fixed block of cells with its own free list. Pages form a
// singly linked list and are only released when the heap is closed.
//
// The free list is a stack of slot indexes kept beside the cells rather
// than threaded through them, so a free cell's payload is never mistaken
// for live data.
type page struct {
	cells []Cell
	free  []int32
	index int
	next  *page
}

func newPage(index, size int) *page {
	p := &page{
		cells: make([]Cell, size),
		free:  make([]int32, 0, size),
		index: index,
	}

	// Push in reverse so that cells are handed out in address order.
	for i := size - 1; i >= 0; i-- {
		p.push(int32(i))
	}

	return p
}

// pop removes a cell from the free list, or returns nil if there is none.
func (p *page) pop() *Cell {
	n := len(p.free)
	if n == 0 {
		return nil
	}

	i := p.free[n-1]
	p.free = p.free[:n-1]

	c := &p.cells[i]
	c.n = 0

	return c
}

// push retags the cell at slot i as free and links it onto the free list.
// The cell records its ordinal for diagnostics.
func (p *page) push(i int32) {
	p.free = append(p.free, i)

	c := &p.cells[i]
	c.kind = KindFree
	c.n = len(p.free)
}
