// Released under an MIT license. See LICENSE.

package options

import (
	"os"
	"testing"

	"github.com/docopt/docopt-go"
	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-isatty"
)

func init() {
	parser.HelpHandler = docopt.NoHelpHandler
}

func TestScript(t *testing.T) {
	if err := ParseArgs([]string{"--log=x.log", "main.scm", "a", "b"}); err != nil {
		t.Fatal(err)
	}

	if Script() != "main.scm" {
		t.Errorf("got script %q, want main.scm", Script())
	}

	if diff := cmp.Diff([]string{"a", "b"}, Args()); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}

	if Log() != "x.log" {
		t.Errorf("got log %q, want x.log", Log())
	}

	if Interactive() {
		t.Error("script mode should not be interactive")
	}
}

func TestExpression(t *testing.T) {
	if err := ParseArgs([]string{"-e", "(+ 1 2)", "--config", "c.yaml"}); err != nil {
		t.Fatal(err)
	}

	if Expression() != "(+ 1 2)" {
		t.Errorf("got expression %q", Expression())
	}

	if Config() != "c.yaml" {
		t.Errorf("got config %q", Config())
	}

	if Script() != "" {
		t.Errorf("got script %q, want none", Script())
	}
}

func TestInteractiveCanBeInverted(t *testing.T) {
	tty := isatty.IsTerminal(os.Stdin.Fd())

	if err := ParseArgs([]string{}); err != nil {
		t.Fatal(err)
	}

	if Interactive() != tty {
		t.Errorf("got interactive %v, want %v", Interactive(), tty)
	}

	if err := ParseArgs([]string{"-i"}); err != nil {
		t.Fatal(err)
	}

	if Interactive() == tty {
		t.Errorf("got interactive %v, want %v", Interactive(), !tty)
	}
}

func TestUnknownOption(t *testing.T) {
	if err := ParseArgs([]string{"--bogus"}); err == nil {
		t.Error("expected an error for an unknown option")
	}
}

func TestNilArgsIgnoreProcessArgs(t *testing.T) {
	if err := ParseArgs(nil); err != nil {
		t.Fatal(err)
	}

	if Script() != "" || Expression() != "" || len(Args()) != 0 {
		t.Errorf("got script %q expression %q args %v", Script(), Expression(), Args())
	}
}
