// Released under an MIT license. See LICENSE.

// Package token is shared by the lexer and the reader.
package token

import (
	"strconv"
	"unicode"
)

// Class is a token's type. Single character tokens use the character
// itself as their class.
type Class rune

// T (token) is a lexical item returned by the scanner.
type T struct {
	class  Class
	source Source
	value  string
}

type token = T

// Token classes.
const (
	Error Class = iota

	Atom Class = unicode.MaxRune + iota
	Hash
	String
)

// Source is the location of a token's first character.
type Source struct {
	Char int    // Character position (column).
	Line int    // Line number (row).
	Name string // Label for the source of this token.
}

// String returns the location as name:line:char.
func (s Source) String() string {
	return s.Name + ":" + strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Char)
}

// New creates a new token.
func New(class Class, value string, source Source) *token {
	return &token{
		class:  class,
		source: source,
		value:  value,
	}
}

// String returns a string representation of Class. Useful for debugging.
func (c Class) String() string {
	switch c {
	case Error:
		return "Error"
	case Atom:
		return "Atom"
	case Hash:
		return "Hash"
	case String:
		return "String"
	}

	return strconv.QuoteRune(rune(c))
}

// Class returns the token's class.
func (t *token) Class() Class {
	return t.class
}

// Is returns true if the token t is any of the classes in cs.
func (t *token) Is(cs ...Class) bool {
	if t == nil {
		return false
	}

	for _, c := range cs {
		if t.class == c {
			return true
		}
	}

	return false
}

// Source returns the source location for this token.
func (t *token) Source() Source {
	return t.source
}

// String returns the token's string representation. Useful for debugging.
func (t *token) String() string {
	return strconv.Quote(t.value) + "(" +
		t.class.String() + "," +
		t.source.String() + ")"
}

// Value returns the token's string value.
func (t *token) Value() string {
	return t.value
}
