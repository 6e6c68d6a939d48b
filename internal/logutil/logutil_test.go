// Released under an MIT license. See LICENSE.

package logutil_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michaelmacinnis/cellscheme/internal/logutil"
)

func TestSetOutputRedirectsExistingLoggers(t *testing.T) {
	logger := logutil.GetLogger("[test] ")

	var buf bytes.Buffer

	logutil.SetOutput(&buf)
	defer logutil.SetOutputFile("")

	logger.Printf("hello %d", 1)

	if got := buf.String(); !strings.Contains(got, "[test] ") || !strings.HasSuffix(got, "hello 1\n") {
		t.Errorf("got %q", got)
	}
}

func TestSetOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")

	if err := logutil.SetOutputFile(path); err != nil {
		t.Fatal(err)
	}
	defer logutil.SetOutputFile("")

	logutil.GetLogger("[file] ").Print("written")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(b), "[file] ") || !strings.Contains(string(b), "written") {
		t.Errorf("got %q", b)
	}
}
