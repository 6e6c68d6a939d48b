// Released under an MIT license. See LICENSE.

/*
Cellscheme is a small Scheme interpreter. Every value lives in a heap of
fixed-size cells that is reclaimed by an exact mark-and-sweep collector.

	cellscheme                   # read-eval-print loop
	cellscheme script.scm a b    # evaluate a file; *args* is ("a" "b")
	cellscheme -e '(+ 1 2)'      # evaluate an expression and print it

Settings are read from ~/.cellscheme.yaml if it exists.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/michaelmacinnis/cellscheme/internal/engine"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/logutil"
	"github.com/michaelmacinnis/cellscheme/internal/printer"
	"github.com/michaelmacinnis/cellscheme/internal/system/config"
	"github.com/michaelmacinnis/cellscheme/internal/system/history"
	"github.com/michaelmacinnis/cellscheme/internal/system/options"
	"github.com/michaelmacinnis/cellscheme/internal/system/process"
	"github.com/michaelmacinnis/cellscheme/internal/ui"
)

//nolint:gochecknoglobals
var logger = logutil.GetLogger("[main] ")

func main() {
	options.Parse()

	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

// run carries out the mode selected by the parsed options and returns the
// process's exit status.
func run(stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(options.Config())
	if err != nil {
		fmt.Fprintln(stderr, err)

		return 2
	}

	path := cfg.Log
	if options.Log() != "" {
		path = options.Log()
	}

	if err := logutil.SetOutputFile(path); err != nil {
		fmt.Fprintln(stderr, err)

		return 2
	}

	logger.Printf("pid %d (%s)", process.ID(), process.Platform)

	var cleanup []func()

	done := func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}

		cleanup = nil
	}
	defer done()

	e, err := engine.New(engine.Options{
		Heap:   cfg.HeapOptions(),
		Input:  stdin,
		Output: stdout,
		Exit: func(code int) {
			done()
			os.Exit(code)
		},
	})
	if err != nil {
		ui.Report(stderr, err)

		return 1
	}

	cleanup = append(cleanup, e.Close)

	bind(e, "*args*", options.Args())

	switch {
	case options.Expression() != "":
		v, err := e.EvalString("-e", options.Expression())
		if err != nil {
			ui.Report(stderr, err)

			return 1
		}

		if v != heap.Undefined {
			printer.Write(stdout, v)
			fmt.Fprintln(stdout)
		}

	case options.Script() != "":
		if err := e.Load(options.Script()); err != nil {
			ui.Report(stderr, err)

			return 1
		}

	case options.Interactive():
		store, err := history.Open(cfg.REPL.History)
		if err != nil {
			logger.Printf("history disabled: %v", err)
		} else {
			cleanup = append(cleanup, func() { store.Close() })
		}

		err = ui.Run(e, ui.Options{
			Prompt:  cfg.REPL.Prompt,
			History: store,
			Output:  stdout,
		})
		if err != nil {
			fmt.Fprintln(stderr, err)

			return 1
		}

	default:
		ui.Batch(e, stdout)
	}

	return 0
}

// bind sets the global value of name to a list of strs.
func bind(e *engine.T, name string, strs []string) {
	h := e.Heap()

	l := heap.Null
	defer h.Release(h.Push(&l))

	for i := len(strs) - 1; i >= 0; i-- {
		l = h.Cons(h.String(strs[i]), l)
	}

	h.Intern(name).SetGlobal(l)
}
