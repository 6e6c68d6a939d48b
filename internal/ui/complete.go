// Released under an MIT license. See LICENSE.

package ui

import (
	"sort"
	"strings"

	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/system/cache"
)

const delimiters = " \t\n()'\""

// complete returns completions for the word ending at pos. Inside a
// string the word is a file name. Otherwise it is the name of a bound
// symbol.
func complete(h *heap.T, line string, pos int) (head string, cs []string, tail string) {
	head, tail = line[:pos], line[pos:]

	start := strings.LastIndexAny(head, delimiters) + 1
	word := head[start:]

	if quoted(head[:start]) {
		cs = cache.Complete(word)
	} else if word != "" {
		h.Symbols(func(sym heap.Value) {
			if sym.Global() != heap.Unbound && strings.HasPrefix(sym.Name(), word) {
				cs = append(cs, sym.Name())
			}
		})

		sort.Strings(cs)
	}

	return head[:start], cs, tail
}

// quoted returns true if the end of text is inside a string literal.
func quoted(text string) bool {
	inside := false

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if inside {
				i++
			}
		case '"':
			inside = !inside
		case ';':
			if !inside {
				return false
			}
		}
	}

	return inside
}
