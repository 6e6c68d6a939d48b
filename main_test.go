// Released under an MIT license. See LICENSE.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michaelmacinnis/cellscheme/internal/system/options"
)

func execute(t *testing.T, stdin string, argv ...string) (int, string, string) {
	t.Helper()

	config := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(config, []byte("heap: {page_cells: 1000}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	argv = append([]string{"--config", config}, argv...)

	if err := options.ParseArgs(argv); err != nil {
		t.Fatal(err)
	}

	// Never prompt, even when the tests are run from a terminal.
	if options.Interactive() {
		if err := options.ParseArgs(append([]string{"-i"}, argv...)); err != nil {
			t.Fatal(err)
		}
	}

	var stdout, stderr bytes.Buffer

	code := run(strings.NewReader(stdin), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestExpression(t *testing.T) {
	code, out, _ := execute(t, "", "-e", "(define (sq x) (* x x)) (sq 12)")
	if code != 0 || out != "144\n" {
		t.Errorf("got %d %q, want 0 \"144\\n\"", code, out)
	}
}

func TestExpressionError(t *testing.T) {
	code, _, errs := execute(t, "", "-e", "(car 1)")
	if code != 1 || errs != "expected pair, got integer (car 1)\n" {
		t.Errorf("got %d %q", code, errs)
	}
}

func TestScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.scm")

	err := os.WriteFile(path, []byte(`
(define (show x) (display x) (newline))
(map show *args*)
(show (length *args*))
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	code, out, _ := execute(t, "", path, "a", "b")
	if code != 0 || out != "a\nb\n2\n" {
		t.Errorf("got %d %q", code, out)
	}
}

func TestScriptStopsAtFirstError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.scm")

	if err := os.WriteFile(path, []byte("(display 1)\nnope\n(display 2)\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, errs := execute(t, "", path)
	if code != 1 || out != "1" || errs != "invalid reference: nope nope\n" {
		t.Errorf("got %d %q %q", code, out, errs)
	}
}

func TestBatch(t *testing.T) {
	code, out, _ := execute(t, "(+ 1 2)\n(display \"hi\")\n")
	if code != 0 || out != "3\nhi" {
		t.Errorf("got %d %q", code, out)
	}
}

func TestBatchRead(t *testing.T) {
	code, out, _ := execute(t, "(car (list (read)))\n42\n")
	if code != 0 || out != "42\n" {
		t.Errorf("got %d %q", code, out)
	}
}

func TestBadConfig(t *testing.T) {
	if err := options.ParseArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer

	if code := run(strings.NewReader(""), &bytes.Buffer{}, &stderr); code != 2 {
		t.Errorf("got exit %d, want 2", code)
	}
}
