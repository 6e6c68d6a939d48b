// Released under an MIT license. See LICENSE.

// Package options parses the command line.
package options

import (
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

// Version is reported by --version.
const Version = "cellscheme 0.1.0"

//nolint:gochecknoglobals
var (
	args        []string
	config      string
	expression  string
	interactive bool
	log         string
	script      string

	parser = &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}

	usage = `cellscheme

Usage:
  cellscheme [options] SCRIPT [ARGUMENTS...]
  cellscheme [options] -e EXPR
  cellscheme [options]
  cellscheme -h
  cellscheme -v

Arguments:
  ARGUMENTS  Available to the script as the value of *args*.
  SCRIPT     Path to a scheme source file.

Options:
  -c, --config=PATH   Read settings from PATH instead of ~/.cellscheme.yaml.
  -e, --eval=EXPR     Evaluate EXPR and print its value.
  -i, --interactive   Invert interactive mode.
  -l, --log=PATH      Write diagnostic messages to PATH.
  -h, --help          Display this help.
  -v, --version       Print cellscheme version.

If cellscheme's stdin is a TTY, and cellscheme was invoked without SCRIPT
or EXPR, the REPL uses line editing and history. Otherwise, forms are read
from stdin without prompting.
`
)

// Args returns the arguments passed after SCRIPT.
func Args() []string {
	return args
}

// Config returns the path of the settings file, if one was named.
func Config() string {
	return config
}

// Expression returns the expression passed with --eval.
func Expression() string {
	return expression
}

// Interactive returns true if the REPL should edit lines and keep history.
func Interactive() bool {
	return interactive
}

// Log returns the path diagnostic messages are written to, if any.
func Log() string {
	return log
}

// Parse parses the process's command line.
func Parse() {
	if err := ParseArgs(os.Args[1:]); err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}
}

// ParseArgs parses argv, which does not include the program name.
func ParseArgs(argv []string) error {
	if argv == nil {
		// A nil argv would make docopt read os.Args.
		argv = []string{}
	}

	opts, err := parser.ParseArgs(usage, argv, Version)
	if err != nil {
		return err
	}

	config, _ = opts.String("--config")
	expression, _ = opts.String("--eval")
	log, _ = opts.String("--log")
	script, _ = opts.String("SCRIPT")

	args, _ = opts["ARGUMENTS"].([]string)

	interactive = script == "" && expression == "" &&
		isatty.IsTerminal(os.Stdin.Fd())

	invert, _ := opts.Bool("--interactive")
	interactive = interactive != invert

	return nil
}

// Script returns the path of the script to run, if any.
func Script() string {
	return script
}
