package sexp

import (
	"testing"
)

func TestParseNestedLists(t *testing.T) {
	nodes, err := ParseString(`(wire (pts (xy 100 50) (xy 150 50)) (uuid "w1"))`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 top-level node, got %d", len(nodes))
	}

	root, ok := nodes[0].(List)
	if !ok {
		t.Fatal("Expected top-level list")
	}
	if root.Keyword() != "wire" {
		t.Errorf("Expected keyword 'wire', got %q", root.Keyword())
	}

	pts, found := Find(root, "pts")
	if !found {
		t.Fatal("Expected to find 'pts' child")
	}
	xys := FindAll(pts, "xy")
	if len(xys) != 2 {
		t.Fatalf("Expected 2 xy nodes, got %d", len(xys))
	}

	x, err := FloatAt(xys[1], 1)
	if err != nil {
		t.Fatalf("FloatAt failed: %v", err)
	}
	if x != 150 {
		t.Errorf("Expected x=150, got %v", x)
	}
}

func TestParseQuotedStrings(t *testing.T) {
	nodes, err := ParseString(`(property "Reference" "PREAMP 1")`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	root := nodes[0].(List)
	key, err := StringAt(root, 1)
	if err != nil {
		t.Fatalf("StringAt failed: %v", err)
	}
	if key != "Reference" {
		t.Errorf("Expected 'Reference', got %q", key)
	}

	// Quoted strings with spaces stay a single atom.
	val, err := StringAt(root, 2)
	if err != nil {
		t.Fatalf("StringAt failed: %v", err)
	}
	if val != "PREAMP 1" {
		t.Errorf("Expected 'PREAMP 1', got %q", val)
	}
}

func TestParseEscapes(t *testing.T) {
	nodes, err := ParseString(`(name "a\"b" "c\nd")`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := nodes[0].(List)

	a, _ := StringAt(root, 1)
	if a != `a"b` {
		t.Errorf(`Expected a"b, got %q`, a)
	}
	b, _ := StringAt(root, 2)
	if b != "c\nd" {
		t.Errorf("Expected escaped newline, got %q", b)
	}
}

func TestParseComments(t *testing.T) {
	input := `# leading comment
	(version 20231120) # trailing comment
	(generator "eeschema")`

	nodes, err := ParseString(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	v, err := IntAt(nodes[0], 1)
	if err != nil {
		t.Fatalf("IntAt failed: %v", err)
	}
	if v != 20231120 {
		t.Errorf("Expected 20231120, got %d", v)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unbalanced open", `(wire (pts`},
		{"unbalanced close", `)`},
		{"unterminated string", `(name "abc`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseString(tc.input); err == nil {
				t.Errorf("Expected parse error for %q", tc.input)
			}
		})
	}
}

func TestHasAtom(t *testing.T) {
	nodes, err := ParseString(`(pin passive line hide)`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !HasAtom(nodes[0], "hide") {
		t.Error("Expected to find 'hide' atom")
	}
	if HasAtom(nodes[0], "show") {
		t.Error("Did not expect to find 'show' atom")
	}
}

func TestStringRoundTrip(t *testing.T) {
	nodes, err := ParseString(`(at 100 50 90)`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := nodes[0].String()
	if got != "(at 100 50 90)" {
		t.Errorf("Round trip mismatch: %q", got)
	}
}
