// Released under an MIT license. See LICENSE.

// Package cache lists directories for file name completion.
//
// Listings are remembered until invalidated. The map holding them is owned
// by a single goroutine; other goroutines send it requests.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//nolint:gochecknoglobals
var (
	listings      = map[string][]string{}
	pathSeparator = string(os.PathSeparator)
	requestq      chan func()
)

//nolint:gochecknoinits
func init() {
	requestq = make(chan func(), 1)

	go service()
}

// Complete returns the paths that begin with prefix. Directories end
// with a path separator.
func Complete(prefix string) []string {
	dirname, basename := filepath.Split(prefix)

	var matches []string

	for _, p := range Files(dirname) {
		if strings.HasPrefix(p, basename) {
			matches = append(matches, dirname+p)
		}
	}

	return matches
}

// Files returns the sorted names in dirname, listing it if it has not
// been listed since it was last invalidated. An empty dirname is the
// current directory.
func Files(dirname string) []string {
	resultq := make(chan []string)

	requestq <- func() {
		f, ok := listings[dirname]
		if !ok {
			f = list(dirname)
			listings[dirname] = f
		}

		resultq <- f
		close(resultq)
	}

	return <-resultq
}

// Invalidate forgets every listing.
func Invalidate() {
	done := make(chan struct{})

	requestq <- func() {
		listings = map[string][]string{}
		close(done)
	}

	<-done
}

func list(dirname string) []string {
	dir := dirname
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	f := make([]string, 0, len(entries))

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += pathSeparator
		}

		f = append(f, name)
	}

	sort.Strings(f)

	return f
}

func service() {
	for {
		(<-requestq)()
	}
}
