// Released under an MIT license. See LICENSE.

package heap

// Push registers slots as roots and returns the height of the root stack
// before they were added. Pass that height to Release to unregister them:
//
//	defer h.Release(h.Push(&expr, &env))
//
// A slot is read at collection time, so assignments made after Push are
// seen by the collector.
func (h *T) Push(slots ...*Value) int {
	n := len(h.roots)
	h.roots = append(h.roots, slots...)

	return n
}

// Release truncates the root stack to height n.
func (h *T) Release(n int) {
	if n < len(h.roots) {
		for i := n; i < len(h.roots); i++ {
			h.roots[i] = nil
		}

		h.roots = h.roots[:n]
	}
}

// Height returns the current height of the root stack.
func (h *T) Height() int {
	return len(h.roots)
}

// Protect pins v and everything reachable from it for the life of the heap.
func (h *T) Protect(v Value) {
	c := v.cell
	if c == nil || c.mark == forever {
		return
	}

	c.mark = forever
	h.protected = append(h.protected, v)
}

// Protected returns true if v has been pinned with Protect.
func (h *T) Protected(v Value) bool {
	return v.cell != nil && v.ref().mark == forever
}
