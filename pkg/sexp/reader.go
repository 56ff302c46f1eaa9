package sexp

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLeftParen
	tokenRightParen
	tokenAtom
)

type token struct {
	kind  tokenKind
	value string
}

// reader tokenizes and parses s-expressions from an io.Reader without
// buffering the whole document.
type reader struct {
	src *bufio.Reader
}

func newReader(r io.Reader) *reader {
	return &reader{src: bufio.NewReader(r)}
}

func (rd *reader) readAll() ([]Node, error) {
	var nodes []Node
	for {
		tok, err := rd.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			return nodes, nil
		}
		node, err := rd.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

// parseFrom builds a node starting from an already-consumed token.
func (rd *reader) parseFrom(tok token) (Node, error) {
	switch tok.kind {
	case tokenAtom:
		return Atom(tok.value), nil
	case tokenLeftParen:
		return rd.parseList()
	case tokenRightParen:
		return nil, fmt.Errorf("unexpected ')'")
	default:
		return nil, fmt.Errorf("unexpected end of input")
	}
}

func (rd *reader) parseList() (Node, error) {
	list := List{}
	for {
		tok, err := rd.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenRightParen:
			return list, nil
		case tokenEOF:
			return nil, fmt.Errorf("unexpected end of input inside list")
		default:
			elem, err := rd.parseFrom(tok)
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
	}
}

// next returns the next token, skipping whitespace and # line comments.
func (rd *reader) next() (token, error) {
	for {
		ch, _, err := rd.src.ReadRune()
		if err == io.EOF {
			return token{kind: tokenEOF}, nil
		}
		if err != nil {
			return token{}, err
		}

		if unicode.IsSpace(ch) {
			continue
		}
		if ch == '#' {
			if err := rd.skipLine(); err != nil {
				return token{}, err
			}
			continue
		}

		switch ch {
		case '(':
			return token{kind: tokenLeftParen, value: "("}, nil
		case ')':
			return token{kind: tokenRightParen, value: ")"}, nil
		case '"':
			return rd.readString()
		default:
			if err := rd.src.UnreadRune(); err != nil {
				return token{}, err
			}
			return rd.readSymbol()
		}
	}
}

func (rd *reader) skipLine() error {
	for {
		ch, _, err := rd.src.ReadRune()
		if err == io.EOF || ch == '\n' {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readString consumes a quoted string whose opening quote is already read.
// Backslash escapes and doubled quotes are resolved into the atom value.
func (rd *reader) readString() (token, error) {
	var out []rune
	for {
		ch, _, err := rd.src.ReadRune()
		if err == io.EOF {
			return token{}, fmt.Errorf("unterminated string")
		}
		if err != nil {
			return token{}, err
		}

		switch ch {
		case '"':
			// A doubled quote inside a string is an escaped quote.
			next, _, err := rd.src.ReadRune()
			if err == nil {
				if next == '"' {
					out = append(out, '"')
					continue
				}
				if err := rd.src.UnreadRune(); err != nil {
					return token{}, err
				}
			}
			return token{kind: tokenAtom, value: string(out)}, nil

		case '\\':
			next, _, err := rd.src.ReadRune()
			if err != nil {
				return token{}, fmt.Errorf("unterminated escape in string")
			}
			switch next {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, next)
			}

		default:
			out = append(out, ch)
		}
	}
}

func (rd *reader) readSymbol() (token, error) {
	var out []rune
	for {
		ch, _, err := rd.src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			if err := rd.src.UnreadRune(); err != nil {
				return token{}, err
			}
			break
		}
		out = append(out, ch)
	}
	if len(out) == 0 {
		return token{}, fmt.Errorf("empty symbol")
	}
	return token{kind: tokenAtom, value: string(out)}, nil
}
