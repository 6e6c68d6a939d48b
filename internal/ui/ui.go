// Released under an MIT license. See LICENSE.

// Package ui provides the read-eval-print loop.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/logutil"
	"github.com/michaelmacinnis/cellscheme/internal/printer"
	"github.com/michaelmacinnis/cellscheme/internal/reader"
	"github.com/michaelmacinnis/cellscheme/internal/system/cache"
	"github.com/michaelmacinnis/cellscheme/internal/system/history"
)

//nolint:gochecknoglobals
var logger = logutil.GetLogger("[ui] ")

// Evaluator is the interface for things that evaluate what is read.
type Evaluator interface {
	Evaluate(x heap.Value) (heap.Value, error)
	Heap() *heap.T
}

// Options configures the interactive loop.
type Options struct {
	Prompt  string
	History *history.Store // May be nil.
	Output  io.Writer
}

// Source is an Evaluator that also reads its own input.
type Source interface {
	Evaluator
	Next() (heap.Value, error)
}

// Batch evaluates every datum read by e, printing results and errors to
// w, until the input is exhausted. Data read by the program itself, with
// read, are taken from the same input.
func Batch(e Source, w io.Writer) {
	for {
		x, err := e.Next()
		if err != nil {
			Report(w, err)

			continue
		}

		if x == heap.EOF {
			return
		}

		v, err := e.Evaluate(x)
		result(w, v, err)
	}
}

// Report prints the message for err followed by the expression that was
// being evaluated, if known.
func Report(w io.Writer, err error) {
	msg := fault.Message(err)
	if x, ok := fault.Expression(err); ok {
		msg = fmt.Sprintf("%s %v", msg, x)
	}

	fmt.Fprintln(w, msg)
}

// Run launches an interactive loop on the terminal.
func Run(e Evaluator, opts Options) error {
	cooked, err := liner.TerminalMode()
	if err != nil {
		return err
	}

	cli := liner.NewLiner()
	defer cli.Close()

	uncooked, err := liner.TerminalMode()
	if err != nil {
		return err
	}

	if opts.History != nil {
		if err := opts.History.Load(cli.ReadHistory); err != nil {
			logger.Printf("loading history: %v", err)
		}
	}

	cli.SetCtrlCAborts(true)
	cli.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return complete(e.Heap(), line, pos)
	})

	s := newSession(e, opts.Output)

	for {
		prompt := opts.Prompt
		if s.rd.Pending() {
			prompt = strings.Repeat(" ", len(prompt))
		}

		if err := uncooked.ApplyMode(); err != nil {
			return err
		}

		line, err := cli.Prompt(prompt)

		if merr := cooked.ApplyMode(); merr != nil {
			return merr
		}

		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted):
			s.rd.Discard()

			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(opts.Output)
			s.finish()

			return nil
		default:
			return err
		}

		if strings.TrimSpace(line) != "" {
			cli.AppendHistory(line)

			if opts.History != nil {
				if _, err := opts.History.AddCmd(line); err != nil {
					logger.Printf("saving history: %v", err)
				}
			}
		}

		s.feed(line + "\n")
	}
}

// session feeds text to a reader and evaluates each complete datum.
type session struct {
	e  Evaluator
	rd *reader.T
	w  io.Writer
}

func newSession(e Evaluator, w io.Writer) *session {
	return &session{e: e, rd: reader.New(e.Heap(), "stdin"), w: w}
}

func (s *session) drain() {
	for {
		x, ok, err := s.rd.Next()
		if err != nil {
			Report(s.w, err)

			continue
		}

		if !ok || x == heap.EOF {
			return
		}

		v, err := s.e.Evaluate(x)
		result(s.w, v, err)
	}
}

// result prints v, unless it is undefined, or err.
func result(w io.Writer, v heap.Value, err error) {
	if err != nil {
		Report(w, err)

		return
	}

	if v == heap.Undefined {
		return
	}

	if err := printer.Write(w, v); err != nil {
		logger.Printf("writing result: %v", err)
	}

	fmt.Fprintln(w)
}

// feed evaluates every datum text completes, then drops cached file name
// listings.
func (s *session) feed(text string) {
	s.rd.Scan(text)
	s.drain()

	cache.Invalidate()
}

func (s *session) finish() {
	s.rd.Finish()
	s.drain()
}
