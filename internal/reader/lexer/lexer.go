// Released under an MIT license. See LICENSE.

// Package lexer provides a lexical scanner for scheme source text.
//
// The lexer adapts the state function approach used by Go's text/template
// lexer and described in detail in Rob Pike's talk "Lexical Scanning in Go".
// See https://talks.golang.org/2011/lex.slide for more information.
//
// Text arrives in pieces through Scan. When a state function runs out of
// text it stops, and resumes where it left off once more text is scanned.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/michaelmacinnis/cellscheme/internal/reader/token"
)

// T holds the state of the scanner.
type T struct {
	bytes   string   // Buffer being scanned.
	done    bool     // No more text will be scanned.
	first   int      // Index of the current token's first byte.
	index   int      // Index of the current byte.
	queue   []string // Buffers waiting to be scanned.
	runes   int      // Runes scanned on the current line.
	saved   action   // Escaped action.
	stalled bool     // The current state needs more text.
	state   action   // Current action.

	source token.Source

	tokens []*token.T
}

// New creates a new T. Label can be a file name or other identifier.
func New(label string) *T {
	l := &T{
		runes: 1,
		source: token.Source{
			Char: 1,
			Line: 1,
			Name: label,
		},
	}

	l.state = skipWhitespace

	return l
}

// Discard drops all buffered text and any partially scanned token.
// Position tracking continues from where it was.
func (l *T) Discard() {
	l.bytes = ""
	l.first = 0
	l.index = 0
	l.queue = nil
	l.saved = nil
	l.state = skipWhitespace
	l.tokens = nil
}

// Finish tells the lexer that no more text is coming. A token that was
// waiting for more text is completed or reported as an error.
func (l *T) Finish() {
	l.Scan("\n")
	l.done = true
}

// Finished returns true once Finish has been called.
func (l *T) Finished() bool {
	return l.done
}

// Partial returns true if a token has been started but not completed.
func (l *T) Partial() bool {
	return l.first < l.index
}

// Scan passes a text buffer to the lexer for scanning.
// If a buffer is currently being scanned, the new buffer will
// be appended to the list of buffers waiting to be scanned.
func (l *T) Scan(text string) {
	l.queue = append(l.queue, text)
}

// Text is used to return the text corresponding to the current token.
func (l *T) Text() string {
	return l.bytes[l.first:l.index]
}

// Token returns the next scanned token, or nil if no token is available.
func (l *T) Token() *token.T {
	for {
		if len(l.tokens) > 0 {
			t := l.tokens[0]
			l.tokens = l.tokens[1:]

			return t
		}

		l.gather()

		if l.stalled {
			return nil
		}

		if state := l.state(l); state != nil {
			l.state = state
		} else {
			l.stalled = true
		}
	}
}

type action func(*T) action

const eof = -1

func (l *T) accept(r token.Class, w int) {
	if r == '\n' {
		l.source.Line++
		l.runes = 1
	} else {
		l.runes++
	}

	l.index += w
}

func (l *T) emit(c token.Class, v string) {
	l.tokens = append(l.tokens, token.New(c, v, l.source))
	l.skip()
}

func (l *T) escape(escaped, a action) action {
	l.saved = escaped

	return a
}

func (l *T) gather() {
	if len(l.queue) == 0 {
		return
	}

	bytes := strings.Join(l.queue, "")

	if l.first < len(l.bytes) {
		// Prepend leftover to new bytes.
		bytes = l.bytes[l.first:] + bytes
	}

	l.queue = nil
	l.bytes = bytes
	l.index -= l.first
	l.first = 0
	l.stalled = false
}

func (l *T) next() token.Class {
	r, w := l.peek()
	if r != eof {
		l.accept(r, w)
	}

	return r
}

func (l *T) peek() (token.Class, int) {
	r, w := rune(eof), 0
	if l.index < len(l.bytes) {
		r, w = utf8.DecodeRuneInString(l.bytes[l.index:])
	}

	return token.Class(r), w
}

func (l *T) resume() action {
	resumed := l.saved
	l.saved = nil

	return resumed
}

func (l *T) skip() {
	l.source.Char = l.runes
	l.first = l.index
}

// T states.

func escapeNextCharacter(l *T) action {
	if l.next() == eof {
		if l.done {
			l.emit(token.Error, "unterminated string")
			l.saved = nil

			return skipWhitespace
		}

		return nil
	}

	return l.resume()
}

func scanAtom(l *T) action {
	for {
		r, w := l.peek()

		switch r {
		case eof:
			return nil
		case '\t', '\n', '\r', ' ', '"', '\'', '(', ')', ';':
			s := l.Text()

			switch {
			case s == ".":
				l.emit('.', s)
			case s[0] == '#':
				l.emit(token.Hash, s)
			default:
				l.emit(token.Atom, s)
			}

			return skipWhitespace
		default:
			l.accept(r, w)
		}
	}
}

func scanString(l *T) action {
	for {
		r := l.next()

		switch r {
		case eof:
			if l.done {
				l.emit(token.Error, "unterminated string")

				return skipWhitespace
			}

			return nil
		case '"':
			l.emit(token.String, l.Text())

			return skipWhitespace
		case '\\':
			return l.escape(scanString, escapeNextCharacter)
		}
	}
}

func skipComment(l *T) action {
	for {
		switch l.next() {
		case eof:
			return nil
		case '\n':
			l.skip()

			return skipWhitespace
		}
	}
}

func skipWhitespace(l *T) action {
	for {
		r, w := l.peek()

		switch r {
		case eof:
			return nil
		case '\t', '\n', '\r', ' ':
			l.accept(r, w)
			l.skip()

			continue
		}

		l.accept(r, w)

		switch r {
		case '(', ')', '\'':
			l.emit(r, l.Text())
		case '"':
			return scanString
		case ';':
			return skipComment
		case '#':
			return afterHash
		case '[', ']', '{', '}', '|':
			l.emit(token.Error, "unsupported "+l.Text())
		case '`':
			l.emit(token.Error, "unsupported quasiquotation")
		case ',':
			l.emit(token.Error, "unsupported unquotation")
		default:
			return scanAtom
		}
	}
}

func afterHash(l *T) action {
	r, w := l.peek()

	switch r {
	case eof:
		return nil
	case '(':
		l.accept(r, w)
		l.emit(token.Error, "unsupported vector")

		return skipWhitespace
	case '\\':
		l.accept(r, w)
		l.emit(token.Error, "unsupported character")

		return skipWhitespace
	}

	return scanAtom
}
