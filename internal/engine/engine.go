// Released under an MIT license. See LICENSE.

// Package engine provides the evaluator.
//
// An engine owns a heap and a single global environment: the value cells
// of interned symbols. Evaluation errors are raised as panics carrying
// fault errors and are turned back into error values by Catch.
package engine

import (
	"bufio"
	"io"
	"os"

	"github.com/michaelmacinnis/cellscheme/internal/engine/boot"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/logutil"
	"github.com/michaelmacinnis/cellscheme/internal/printer"
	"github.com/michaelmacinnis/cellscheme/internal/reader"
)

//nolint:gochecknoglobals
var logger = logutil.GetLogger("[engine] ")

// Options configures an engine.
type Options struct {
	Heap heap.Options

	// Input is read by read when it is called without a port.
	// The default is os.Stdin.
	Input io.Reader

	// Output receives everything written by display, write and newline.
	// The default is os.Stdout.
	Output io.Writer

	// Exit is called by exit. The default is os.Exit.
	Exit func(code int)
}

// T (engine) is an interpreter instance.
type T struct {
	heap *heap.T

	current heap.Value // Expression being evaluated.
	exit    func(int)  // Called by exit.
	inputs  map[*os.File]*input
	output  io.Writer
	stdin   *input

	arrow  heap.Value
	elsek  heap.Value
	lambda heap.Value
}

type engine = T

// input pairs a buffered source of text with the reader parsing it.
type input struct {
	r  *bufio.Reader
	rd *reader.T
}

// New creates an engine, installs the primitives and evaluates the boot
// script.
func New(opts Options) (*T, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	e := &T{
		current: heap.Null,
		exit:    opts.Exit,
		inputs:  map[*os.File]*input{},
		output:  opts.Output,
	}

	closed := opts.Heap.OnPortClosed
	opts.Heap.OnPortClosed = func(f *os.File) {
		delete(e.inputs, f)

		if closed != nil {
			closed(f)
		}
	}

	h := heap.New(opts.Heap)
	e.heap = h

	e.stdin = &input{
		r:  bufio.NewReader(opts.Input),
		rd: reader.New(h, "stdin"),
	}

	// The current expression is a root for the life of the engine.
	h.Push(&e.current)

	e.arrow = e.keyword("=>")
	e.elsek = e.keyword("else")
	e.lambda = e.keyword("lambda")
	e.keyword("define")
	e.keyword("quote")

	for name, proc := range primitives() {
		sym := h.Intern(name)
		sym.SetGlobal(h.Primitive(&heap.Primitive{Name: name, Proc: proc}))
	}

	if _, err := e.EvalString("boot", boot.Script()); err != nil {
		h.Close()

		return nil, err
	}

	logger.Printf("booted: %+v", h.Stats())

	return e, nil
}

// Catch calls fn and returns any error raised while it runs. The root
// stack is restored to its height on entry and the error records the
// expression that was being evaluated. Catch calls nest.
func (e *engine) Catch(fn func()) (err error) {
	height := e.heap.Height()

	defer func() {
		if r := recover(); r != nil {
			err = fault.Recovered(r)

			e.heap.Release(height)

			err = fault.Annotate(err, printer.String(e.current))
		}
	}()

	fn()

	return nil
}

// Close releases the engine's heap, closing any open ports.
func (e *engine) Close() {
	e.heap.Close()
}

// EvalString reads and evaluates every datum in text at the top level and
// returns the value of the last one.
func (e *engine) EvalString(name, text string) (v heap.Value, err error) {
	h := e.heap

	v = heap.Undefined
	defer h.Release(h.Push(&v))

	err = e.Catch(func() {
		r := reader.New(h, name)
		r.Scan(text)
		r.Finish()

		e.run(r, func(x heap.Value) { v = x })
	})

	return v, err
}

// Evaluate evaluates x at the top level.
//
// The result is not rooted. The caller must root it before allocating.
func (e *engine) Evaluate(x heap.Value) (v heap.Value, err error) {
	defer e.heap.Release(e.heap.Push(&x))

	err = e.Catch(func() {
		v = e.Eval(x, heap.Null)
	})

	return v, err
}

// Heap returns the engine's heap.
func (e *engine) Heap() *heap.T {
	return e.heap
}

// Next reads the next datum from the engine's input, the same input read
// uses. At the end of the input it returns heap.EOF.
//
// The result is not rooted. The caller must root it before allocating.
func (e *engine) Next() (heap.Value, error) {
	return e.stdin.read()
}

// Load evaluates the contents of the file at path at the top level.
func (e *engine) Load(path string) error {
	return e.Catch(func() {
		e.load(path)
	})
}

func (e *engine) keyword(name string) heap.Value {
	sym := e.heap.Intern(name)
	e.heap.Protect(sym)

	return sym
}

func (e *engine) load(path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		fault.Raise(fault.Eval, "load: %v", err)
	}

	logger.Printf("loading %s", path)

	r := reader.New(e.heap, path)
	r.Scan(string(text))
	r.Finish()

	e.run(r, nil)
}

// run evaluates every datum from r at the top level, passing each result
// to fn if it is not nil.
func (e *engine) run(r *reader.T, fn func(heap.Value)) {
	h := e.heap

	x := heap.Null
	defer h.Release(h.Push(&x))

	for {
		var err error

		x, _, err = r.Next()
		if err != nil {
			fault.Throw(err)
		}

		if x == heap.EOF {
			return
		}

		v := e.Eval(x, heap.Null)
		if fn != nil {
			fn(v)
		}
	}
}

// next is read for evaluation. Errors are raised.
func (in *input) next() heap.Value {
	v, err := in.read()
	if err != nil {
		fault.Throw(err)
	}

	return v
}

// read returns the next datum from in, reading more text as needed.
func (in *input) read() (heap.Value, error) {
	for {
		v, ok, err := in.rd.Next()
		if err != nil {
			return heap.Null, err
		}

		if ok {
			return v, nil
		}

		line, err := in.r.ReadString('\n')
		if line != "" {
			in.rd.Scan(line)
		}

		if err != nil {
			in.rd.Finish()
		}
	}
}
