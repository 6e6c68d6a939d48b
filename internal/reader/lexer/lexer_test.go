// Released under an MIT license. See LICENSE.

package lexer

import (
	"testing"

	"github.com/michaelmacinnis/cellscheme/internal/reader/token"
)

type harness struct {
	lexer *T
	t     *testing.T
}

type expected struct {
	class token.Class
	value string
}

func setup(t *testing.T, label string) *harness {
	return &harness{
		lexer: New(label),
		t:     t,
	}
}

func (h *harness) expect(tokens ...expected) {
	h.t.Helper()

	for _, e := range tokens {
		a := h.lexer.Token()
		if a == nil {
			h.t.Fatalf("Expected %s %q but there are no tokens", e.class, e.value)
		}

		if a.Class() != e.class || a.Value() != e.value {
			h.t.Fatalf("Expected %s %q; got %v", e.class, e.value, a)
		}
	}

	if a := h.lexer.Token(); a != nil {
		h.t.Fatalf("Expected no tokens; got %v", a)
	}
}

func (h *harness) scan(s string, tokens ...expected) {
	h.t.Helper()

	h.lexer.Scan(s)
	h.expect(tokens...)
}

func atom(s string) expected {
	return expected{token.Atom, s}
}

func literal(s string) expected {
	return expected{token.Class(s[0]), s}
}

func TestList(t *testing.T) {
	h := setup(t, "List")

	h.scan("(+ 1 -2)\n",
		literal("("),
		atom("+"),
		atom("1"),
		atom("-2"),
		literal(")"),
	)
}

func TestQuoteAndDot(t *testing.T) {
	h := setup(t, "QuoteAndDot")

	h.scan("'(a . b) ...\n",
		literal("'"),
		literal("("),
		atom("a"),
		literal("."),
		atom("b"),
		literal(")"),
		atom("..."),
	)
}

func TestHash(t *testing.T) {
	h := setup(t, "Hash")

	h.scan("#t #f #(1) #\\a\n",
		expected{token.Hash, "#t"},
		expected{token.Hash, "#f"},
		expected{token.Error, "unsupported vector"},
		atom("1"),
		literal(")"),
		expected{token.Error, "unsupported character"},
		atom("a"),
	)
}

func TestComment(t *testing.T) {
	h := setup(t, "Comment")

	h.scan("a ; (b c)\nd\n",
		atom("a"),
		atom("d"),
	)
}

func TestString(t *testing.T) {
	h := setup(t, "String")

	h.scan(`"a \"b\" (c)" d`+"\n",
		expected{token.String, `"a \"b\" (c)"`},
		atom("d"),
	)
}

func TestUnsupported(t *testing.T) {
	h := setup(t, "Unsupported")

	h.scan("[`,\n",
		expected{token.Error, "unsupported ["},
		expected{token.Error, "unsupported quasiquotation"},
		expected{token.Error, "unsupported unquotation"},
	)
}

func TestResumesAcrossScans(t *testing.T) {
	h := setup(t, "Resumes")

	h.scan("(ab", literal("("))
	h.scan("cd \"x", atom("abcd"))
	h.scan("y\\")
	h.scan("\"z\" ;", expected{token.String, `"xy\"z"`})
	h.scan(" comment\n)\n", literal(")"))
}

func TestFinishCompletesAtom(t *testing.T) {
	h := setup(t, "Finish")

	h.scan("42")

	h.lexer.Finish()
	h.expect(atom("42"))

	if !h.lexer.Finished() {
		t.Fatal("Expected lexer to be finished")
	}
}

func TestFinishReportsUnterminatedString(t *testing.T) {
	h := setup(t, "Unterminated")

	h.scan(`"abc`)

	h.lexer.Finish()
	h.expect(expected{token.Error, "unterminated string"})
}

func TestDiscard(t *testing.T) {
	h := setup(t, "Discard")

	h.lexer.Scan("(a \"b")
	h.lexer.Discard()
	h.scan("c\n", atom("c"))
}

func TestSource(t *testing.T) {
	l := New("Source")
	l.Scan("(a\n  bc)\n")

	for _, want := range []string{
		"Source:1:1", "Source:1:2", "Source:2:3", "Source:2:5",
	} {
		tok := l.Token()
		if tok == nil {
			t.Fatalf("Expected token at %s", want)
		}

		if got := tok.Source().String(); got != want {
			t.Fatalf("Expected %s; got %s (%v)", want, got, tok)
		}
	}
}
