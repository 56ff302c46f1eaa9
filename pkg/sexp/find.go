package sexp

import (
	"fmt"
	"strconv"
)

// Navigation and typed extraction helpers. These are the "anchored pattern"
// machinery used by the schematic scanners: locate well-known sub-blocks by
// keyword and pull numeric fields out positionally, ignoring everything a
// scanner does not recognize.

// Find returns the first child list of n whose keyword matches key.
func Find(n Node, key string) (List, bool) {
	list, ok := n.(List)
	if !ok {
		return nil, false
	}
	for _, child := range list {
		if sub, ok := child.(List); ok && sub.Keyword() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every child list of n whose keyword matches key.
func FindAll(n Node, key string) []List {
	list, ok := n.(List)
	if !ok {
		return nil
	}
	var out []List
	for _, child := range list {
		if sub, ok := child.(List); ok && sub.Keyword() == key {
			out = append(out, sub)
		}
	}
	return out
}

// StringAt returns the atom at index i of the list. Index 0 is the keyword.
func StringAt(n Node, i int) (string, error) {
	list, ok := n.(List)
	if !ok {
		return "", fmt.Errorf("expected list, got atom")
	}
	if i < 0 || i >= len(list) {
		return "", fmt.Errorf("index %d out of range (list has %d elements)", i, len(list))
	}
	a, ok := list[i].(Atom)
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got list", i)
	}
	return string(a), nil
}

// FloatAt parses the atom at index i as a float64.
func FloatAt(n Node, i int) (float64, error) {
	s, err := StringAt(n, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse float %q: %w", s, err)
	}
	return v, nil
}

// IntAt parses the atom at index i as an int.
func IntAt(n Node, i int) (int, error) {
	s, err := StringAt(n, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse int %q: %w", s, err)
	}
	return v, nil
}

// HasAtom reports whether the list contains the bare atom value.
func HasAtom(n Node, value string) bool {
	list, ok := n.(List)
	if !ok {
		return false
	}
	for _, child := range list {
		if a, ok := child.(Atom); ok && string(a) == value {
			return true
		}
	}
	return false
}
