// Released under an MIT license. See LICENSE.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/system/config"
)

func TestDefaults(t *testing.T) {
	c := config.Default()

	want := heap.Options{
		PageCells: heap.DefaultPageCells,
		LowWater:  heap.DefaultLowWater,
		TableSize: heap.DefaultTableSize,
	}

	if diff := cmp.Diff(want, c.HeapOptions(), cmp.Comparer(func(a, b func()) bool {
		return a == nil && b == nil
	})); diff != "" {
		t.Errorf("heap options (-want +got):\n%s", diff)
	}

	if c.REPL.Prompt != "> " {
		t.Errorf("got prompt %q, want \"> \"", c.REPL.Prompt)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	c := config.Default()

	err = c.Parse([]byte(`
heap:
  page_cells: 100
  max_pages: 4
repl:
  history: ~/h.db
log: /tmp/x.log
`))
	if err != nil {
		t.Fatal(err)
	}

	want := config.Heap{
		PageCells:       100,
		LowWater:        heap.DefaultLowWater,
		MaxPages:        4,
		SymbolTableSize: heap.DefaultTableSize,
	}

	if diff := cmp.Diff(want, c.Heap); diff != "" {
		t.Errorf("heap (-want +got):\n%s", diff)
	}

	if c.REPL.History != filepath.Join(home, "h.db") {
		t.Errorf("got history %q", c.REPL.History)
	}

	if c.REPL.Prompt != "> " {
		t.Errorf("got prompt %q", c.REPL.Prompt)
	}

	if c.Log != "/tmp/x.log" {
		t.Errorf("got log %q", c.Log)
	}
}

func TestParseRejectsNegativeSizes(t *testing.T) {
	if err := config.Default().Parse([]byte("heap: {low_water: -1}")); err == nil {
		t.Error("expected an error")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if err := config.Default().Parse([]byte("heap: [")); err == nil {
		t.Error("expected an error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	if err := os.WriteFile(path, []byte("repl: {prompt: \"scheme> \"}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if c.REPL.Prompt != "scheme> " {
		t.Errorf("got prompt %q", c.REPL.Prompt)
	}

	if _, err := config.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit settings file")
	}
}
