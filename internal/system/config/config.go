// Released under an MIT license. See LICENSE.

// Package config loads settings from a YAML file.
//
// A settings file looks like this:
//
//	heap:
//	  page_cells: 5000
//	  low_water: 600
//	  max_pages: 0
//	  symbol_table_size: 211
//	repl:
//	  prompt: "> "
//	  history: ~/.cellscheme_history.db
//	log: /tmp/cellscheme.log
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joomcode/errorx"
	"gopkg.in/yaml.v3"

	"github.com/michaelmacinnis/cellscheme/internal/heap"
)

// Name is the settings file looked for in the home directory.
const Name = ".cellscheme.yaml"

// Heap holds the allocator settings.
type Heap struct {
	PageCells       int `yaml:"page_cells"`
	LowWater        int `yaml:"low_water"`
	MaxPages        int `yaml:"max_pages"`
	SymbolTableSize int `yaml:"symbol_table_size"`
}

// REPL holds the interactive settings.
type REPL struct {
	Prompt  string `yaml:"prompt"`
	History string `yaml:"history"`
}

// T (config) is the contents of a settings file.
type T struct {
	Heap Heap   `yaml:"heap"`
	REPL REPL   `yaml:"repl"`
	Log  string `yaml:"log"`
}

// Default returns the settings used when there is no settings file.
func Default() *T {
	return &T{
		Heap: Heap{
			PageCells:       heap.DefaultPageCells,
			LowWater:        heap.DefaultLowWater,
			SymbolTableSize: heap.DefaultTableSize,
		},
		REPL: REPL{
			Prompt:  "> ",
			History: filepath.Join(home(), ".cellscheme_history.db"),
		},
	}
}

// Load reads the settings file at path. If path is empty the file named
// Name in the home directory is read, if it exists. Settings missing from
// the file keep their default values.
func Load(path string) (*T, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home(), Name)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}

		return nil, errorx.Decorate(err, "reading settings")
	}

	if err := c.Parse(b); err != nil {
		return nil, errorx.Decorate(err, "parsing %s", path)
	}

	return c, nil
}

// Parse overlays the settings in b on c.
func (c *T) Parse(b []byte) error {
	if err := yaml.Unmarshal(b, c); err != nil {
		return err
	}

	if c.Heap.PageCells < 0 || c.Heap.LowWater < 0 ||
		c.Heap.MaxPages < 0 || c.Heap.SymbolTableSize < 0 {
		return errorx.IllegalArgument.New("heap settings must not be negative")
	}

	c.REPL.History = expand(c.REPL.History)
	c.Log = expand(c.Log)

	return nil
}

// HeapOptions returns the heap options for these settings.
func (c *T) HeapOptions() heap.Options {
	return heap.Options{
		PageCells: c.Heap.PageCells,
		LowWater:  c.Heap.LowWater,
		MaxPages:  c.Heap.MaxPages,
		TableSize: c.Heap.SymbolTableSize,
	}
}

func expand(path string) string {
	if path == "~" {
		return home()
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home(), path[2:])
	}

	return path
}

func home() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}

	return "."
}
