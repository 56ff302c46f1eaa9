// Package sexp implements a streaming reader for the s-expression text
// format used by KiCad documents. Unlike general-purpose sexp libraries,
// the reader handles arbitrarily large files by streaming, keeps quoted
// strings intact as single atoms, and skips line comments.
package sexp

import (
	"io"
	"strings"
)

// Node is an element of a parsed s-expression tree: either an Atom or a List.
type Node interface {
	// IsAtom returns true for atoms (symbols, numbers, quoted strings).
	IsAtom() bool

	// String returns the textual representation of the node.
	String() string
}

// Atom is a bare symbol, number, or quoted string. Quoted strings are stored
// with quotes and escapes already resolved.
type Atom string

func (a Atom) IsAtom() bool   { return true }
func (a Atom) String() string { return string(a) }

// List is a parenthesized sequence of nodes.
type List []Node

func (l List) IsAtom() bool { return false }

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, n := range l {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Keyword returns the leading atom of the list, which names the record the
// list encodes, or "" if the list is empty or starts with a sublist.
func (l List) Keyword() string {
	if len(l) == 0 {
		return ""
	}
	if a, ok := l[0].(Atom); ok {
		return string(a)
	}
	return ""
}

// Parse reads every top-level s-expression from r.
func Parse(r io.Reader) ([]Node, error) {
	return newReader(r).readAll()
}

// ParseString reads every top-level s-expression from s.
func ParseString(s string) ([]Node, error) {
	return Parse(strings.NewReader(s))
}
