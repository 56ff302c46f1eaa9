package schematic

import (
	"strings"
	"testing"
)

const arrowSchematic = `(kicad_sch
	(version 20231120)
	(generator "eeschema")
	(uuid test-uuid)
	(paper "A4")
	(lib_symbols
		(symbol "Harness:2PIN"
			(property "Reference" "U" (at 0 0 0))
			(symbol "2PIN_1_1"
				(pin passive line (at -2.54 0 0) (length 2.54)
					(name "in1")
					(number "1")
				)
				(pin passive line (at 2.54 0 180) (length 2.54)
					(name "out1")
					(number "2")
				)
			)
		)
	)
	(symbol (lib_id "Harness:2PIN")
		(at 100 50 0)
		(unit 1)
		(uuid sym-a)
		(property "Reference" "A" (at 100 45 0))
	)
	(symbol (lib_id "Harness:2PIN")
		(at 150 50 180)
		(unit 1)
		(uuid sym-b)
		(property "Reference" "B" (at 150 45 0))
	)
	(wire (pts (xy 102.54 50) (xy 147.46 50))
		(stroke (width 0) (type default))
		(uuid wire-1)
	)
)`

func TestParsePinTemplates(t *testing.T) {
	doc, err := Parse(strings.NewReader(arrowSchematic))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	def, ok := doc.Symbols["Harness:2PIN"]
	if !ok {
		t.Fatal("Expected symbol Harness:2PIN")
	}
	if len(def.Pins) != 2 {
		t.Fatalf("Expected 2 pin templates, got %d", len(def.Pins))
	}

	in1, ok := def.Pins["in1"]
	if !ok {
		t.Fatal("Expected pin 'in1'")
	}
	if in1.X != -2.54 || in1.Y != 0 {
		t.Errorf("Expected in1 at (-2.54, 0), got (%v, %v)", in1.X, in1.Y)
	}
}

func TestParsePlacements(t *testing.T) {
	doc, err := Parse(strings.NewReader(arrowSchematic))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Placements) != 2 {
		t.Fatalf("Expected 2 placements, got %d", len(doc.Placements))
	}

	b := doc.Placements[1]
	if b.Refdes != "B" {
		t.Errorf("Expected refdes B, got %q", b.Refdes)
	}
	if b.SymbolID != "Harness:2PIN" {
		t.Errorf("Expected symbol id Harness:2PIN, got %q", b.SymbolID)
	}
	if b.Rotation != 180 {
		t.Errorf("Expected rotation 180, got %v", b.Rotation)
	}
}

func TestParseWires(t *testing.T) {
	doc, err := Parse(strings.NewReader(arrowSchematic))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Wires) != 1 {
		t.Fatalf("Expected 1 wire, got %d", len(doc.Wires))
	}
	w := doc.Wires[0]
	if w.ID != "wire-1" {
		t.Errorf("Expected wire id wire-1, got %q", w.ID)
	}
	if w.A.X != 102.54 || w.B.X != 147.46 {
		t.Errorf("Unexpected wire endpoints: %+v", w)
	}
}

func TestParseMultiPointWire(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(lib_symbols)
		(wire (pts (xy 0 0) (xy 10 0) (xy 10 10))
			(uuid bend)
		)
	)`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Wires) != 2 {
		t.Fatalf("Expected 2 segments from a 3-point wire, got %d", len(doc.Wires))
	}
	if doc.Wires[0].ID != "bend" || doc.Wires[1].ID != "bend#1" {
		t.Errorf("Unexpected segment ids: %q, %q", doc.Wires[0].ID, doc.Wires[1].ID)
	}
}

func TestParseWireWithoutUUID(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(lib_symbols)
		(wire (pts (xy 0 0) (xy 10 0)))
	)`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Wires) != 1 {
		t.Fatalf("Expected 1 wire, got %d", len(doc.Wires))
	}
	if doc.Wires[0].ID == "" {
		t.Error("Expected a synthesized id for a wire without uuid")
	}
}

func TestParseEmptySections(t *testing.T) {
	// No pin library and no placed instances is valid: a schematic with no
	// visualizable content yields empty collections, not an error.
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(paper "A4")
	)`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Symbols) != 0 {
		t.Errorf("Expected no symbols, got %d", len(doc.Symbols))
	}
	if len(doc.Placements) != 0 {
		t.Errorf("Expected no placements, got %d", len(doc.Placements))
	}
	if len(doc.Wires) != 0 {
		t.Errorf("Expected no wires, got %d", len(doc.Wires))
	}
}

func TestParseIgnoresBuses(t *testing.T) {
	// Bus primitives are a declared fidelity limit: they must not leak into
	// the wire list.
	input := `(kicad_sch
		(version 20231120)
		(lib_symbols)
		(bus (pts (xy 0 0) (xy 50 0)) (uuid bus-1))
		(bus_entry (at 25 0) (size 2.54 2.54) (uuid be-1))
		(wire (pts (xy 0 10) (xy 50 10)) (uuid wire-1))
	)`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Wires) != 1 {
		t.Fatalf("Expected 1 wire (buses ignored), got %d", len(doc.Wires))
	}
	if doc.Wires[0].ID != "wire-1" {
		t.Errorf("Expected wire-1, got %q", doc.Wires[0].ID)
	}
}

func TestParseRejectsNonSchematic(t *testing.T) {
	if _, err := Parse(strings.NewReader(`(kicad_pcb (version 4))`)); err == nil {
		t.Error("Expected error for non-schematic root")
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile("/nonexistent/path.kicad_sch"); err == nil {
		t.Error("Expected error for missing file")
	}
}
