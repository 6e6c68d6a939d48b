// Released under an MIT license. See LICENSE.

package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCollectedPortsForgetTheirInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("1 2 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := New(Options{Input: strings.NewReader(""), Output: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	open := fmt.Sprintf("(define p (open-input-file %q))", path)

	for _, step := range []struct {
		code string
		want int
	}{
		{open, 1},
		{"(read p)", 1},
		{"(gc)", 1},
		{"(close-port p)", 0},
		{open, 1},
		{"(set! p #f) (gc)", 0},
	} {
		if _, err := e.EvalString("test", step.code); err != nil {
			t.Fatalf("%s: %v", step.code, err)
		}

		if len(e.inputs) != step.want {
			t.Fatalf("after %s: %d inputs, want %d", step.code, len(e.inputs), step.want)
		}
	}
}
