// Released under an MIT license. See LICENSE.

package engine

import (
	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

// Status tells Eval what to do with the value returned by an application.
type Status int

// Statuses.
const (
	// ReturnValue means the value is the result.
	ReturnValue Status = iota

	// NeedEval means the value is an expression in tail position that
	// must still be evaluated in State.Env.
	NeedEval
)

// State is threaded through an application so that special forms and
// closures can hand an expression back to the evaluation loop instead of
// evaluating it themselves.
type State struct {
	Env    heap.Value
	Status Status

	form heap.Value // Combination being applied, if any.
}
