// Released under an MIT license. See LICENSE.

package heap

// The symbol table is a fixed array of buckets. Each bucket is a list of
// ordinary pairs whose cars are symbols, so the table's links live in the
// heap alongside everything else and the collector compacts them.

// Intern returns the symbol named name, creating it unbound if needed.
func (h *T) Intern(name string) Value {
	i := h.bucket(name)

	for l := h.table[i]; l.cell != nil; l = l.cell.b {
		if sym := l.cell.a; sym.cell.s == name {
			return sym
		}
	}

	sym := h.Symbol(name, Unbound)

	// The bucket is read after allocating because a collection during
	// the allocation may have compacted it.
	link := h.Cons(sym, Null)
	link.cell.b = h.table[i]
	h.table[i] = link

	return sym
}

// Lookup returns the interned symbol named name, if there is one.
func (h *T) Lookup(name string) (Value, bool) {
	for l := h.table[h.bucket(name)]; l.cell != nil; l = l.cell.b {
		if sym := l.cell.a; sym.cell.s == name {
			return sym, true
		}
	}

	return Value{}, false
}

// Symbols calls fn for every interned symbol.
func (h *T) Symbols(fn func(sym Value)) {
	for _, chain := range h.table {
		for l := chain; l.cell != nil; l = l.Cdr() {
			fn(l.Car())
		}
	}
}

// bucket hashes name with the classic ELF hash.
func (h *T) bucket(name string) int {
	var v uint32

	for i := 0; i < len(name); i++ {
		v = v<<4 + uint32(name[i])
		if g := v & 0xf0000000; g != 0 {
			v ^= g >> 24
			v ^= g
		}
	}

	return int(v % uint32(len(h.table)))
}
