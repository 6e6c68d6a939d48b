// Released under an MIT license. See LICENSE.

package heap

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(h *T) []string {
	var r []string

	h.Symbols(func(sym Value) {
		r = append(r, sym.Name())
	})

	sort.Strings(r)

	return r
}

func TestInternIsIdentity(t *testing.T) {
	h := New(Options{})

	a := h.Intern("alpha")
	if b := h.Intern("alpha"); a != b {
		t.Fatal("interning twice produced distinct symbols")
	}

	if c := h.Intern("beta"); a == c {
		t.Fatal("distinct names share a symbol")
	}

	if s, ok := h.Lookup("alpha"); !ok || s != a {
		t.Fatal("lookup failed")
	}

	if _, ok := h.Lookup("gamma"); ok {
		t.Fatal("lookup invented a symbol")
	}
}

func TestUnreachableUnboundSymbolsAreDropped(t *testing.T) {
	// A single bucket forces every symbol onto one chain.
	h := New(Options{PageCells: 64, TableSize: 1})

	for _, s := range []string{"a", "b", "c", "d", "e"} {
		h.Intern(s)
	}

	h.Intern("bound").SetGlobal(h.Integer(1))
	h.Protect(h.Intern("pinned"))

	held := h.Intern("held")
	defer h.Release(h.Push(&held))

	h.Collect()

	if diff := cmp.Diff([]string{"bound", "held", "pinned"}, names(h)); diff != "" {
		t.Fatalf("unexpected symbols (-want +got):\n%s", diff)
	}

	if v := h.Intern("bound").Global(); v.Int() != 1 {
		t.Fatalf("bound value lost: %v", v)
	}

	// Every remaining link is live and refers to a live symbol.
	for l := h.table[0]; l.cell != nil; l = l.Cdr() {
		if l.cell.kind != KindPair || l.Car().cell.kind != KindSymbol {
			t.Fatal("symbol chain refers to a reclaimed cell")
		}
	}
}

func TestReinternAfterCollection(t *testing.T) {
	h := New(Options{PageCells: 64})

	old := h.Intern("gone")
	h.Collect()

	fresh := h.Intern("gone")
	if fresh == old || fresh.Name() != "gone" {
		t.Fatal("expected a new symbol after the old one was reclaimed")
	}
}

func TestChainOrderIsPreserved(t *testing.T) {
	h := New(Options{PageCells: 64, TableSize: 1})

	for _, s := range []string{"w", "x", "y", "z"} {
		h.Intern(s).SetGlobal(True)
	}

	h.Intern("drop")
	h.Collect()

	var got []string
	for l := h.table[0]; l.cell != nil; l = l.Cdr() {
		got = append(got, l.Car().Name())
	}

	if diff := cmp.Diff([]string{"z", "y", "x", "w"}, got); diff != "" {
		t.Fatalf("chain order changed (-want +got):\n%s", diff)
	}
}
