// Released under an MIT license. See LICENSE.

// Package evaltest provides a framework for testing scheme code.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method
// calls that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("(+ 1 2)").Returns("3"),
//	    That(`(display "x")`).Prints("x"))
package evaltest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joomcode/errorx"
	"github.com/michaelmacinnis/cellscheme/internal/engine"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/printer"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	heap   heap.Options
	setup  func(e *engine.T)
	verify func(t *testing.T, e *engine.T)
	want   result
}

type result struct {
	Value  *string
	Output *string
	Exit   *int

	Error   *errorx.Type
	Message string
}

// That returns a new Case with the specified source code. Multiple
// arguments are joined with newlines. To specify multiple pieces of code
// that are evaluated separately, use the Then method to append code pieces.
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that evaluates the given code in addition.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))

	return c
}

// WithHeap returns a new Case that runs on a heap configured with opts.
func (c Case) WithHeap(opts heap.Options) Case {
	c.heap = opts

	return c
}

// WithSetup returns a new Case with the given setup function called on the
// engine before the code is evaluated.
func (c Case) WithSetup(f func(*engine.T)) Case {
	c.setup = f

	return c
}

// Passes returns a new Case that runs an additional verification function
// after the code is evaluated.
func (c Case) Passes(f func(*testing.T, *engine.T)) Case {
	c.verify = f

	return c
}

// Returns returns a new Case that requires the value of the last piece of
// code, as written by write, to be s.
func (c Case) Returns(s string) Case {
	c.want.Value = &s

	return c
}

// Prints returns a new Case that requires the code to produce the
// specified output.
func (c Case) Prints(s string) Case {
	c.want.Output = &s

	return c
}

// Exits returns a new Case that requires the code to call exit with code.
func (c Case) Exits(code int) Case {
	c.want.Exit = &code

	return c
}

// Fails returns a new Case that requires the last piece of code to raise
// an error of type t.
func (c Case) Fails(t *errorx.Type) Case {
	c.want.Error = t

	return c
}

// FailsWith is like Fails but also requires the error's message.
func (c Case) FailsWith(t *errorx.Type, msg string) Case {
	c.want.Error = t
	c.want.Message = msg

	return c
}

// Test runs test cases. For each test case, a new engine is created.
func Test(t *testing.T, tests ...Case) {
	t.Helper()

	for _, tc := range tests {
		tc := tc

		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()

			var (
				exited *int
				out    bytes.Buffer
			)

			e, err := engine.New(engine.Options{
				Heap:   tc.heap,
				Input:  strings.NewReader(""),
				Output: &out,
				Exit:   func(code int) { exited = &code },
			})
			if err != nil {
				t.Fatalf("engine.New: %v", err)
			}
			defer e.Close()

			if tc.setup != nil {
				tc.setup(e)
			}

			var value string

			for _, code := range tc.codes {
				var v heap.Value

				v, err = e.EvalString("[test]", code)
				if err == nil {
					value = printer.String(v)
				}
			}

			if tc.verify != nil {
				tc.verify(t, e)
			}

			check(t, tc.want, value, out.String(), exited, err)
		})
	}
}

func check(t *testing.T, want result, value, output string, exited *int, err error) {
	t.Helper()

	switch {
	case want.Error == nil && err != nil:
		t.Errorf("got error %v, want none", err)
	case want.Error != nil && err == nil:
		t.Errorf("got no error, want %v", want.Error)
	case want.Error != nil && !fault.Is(err, want.Error):
		t.Errorf("got error %v, want %v", err, want.Error)
	case want.Message != "" && fault.Message(err) != want.Message:
		t.Errorf("got message %q, want %q", fault.Message(err), want.Message)
	}

	if want.Value != nil && err == nil {
		if diff := cmp.Diff(*want.Value, value); diff != "" {
			t.Errorf("got value (-want +got):\n%s", diff)
		}
	}

	if want.Output != nil {
		if diff := cmp.Diff(*want.Output, output); diff != "" {
			t.Errorf("got output (-want +got):\n%s", diff)
		}
	}

	if want.Exit != nil {
		switch {
		case exited == nil:
			t.Errorf("did not exit, want exit %d", *want.Exit)
		case *exited != *want.Exit:
			t.Errorf("got exit %d, want exit %d", *exited, *want.Exit)
		}
	}
}
