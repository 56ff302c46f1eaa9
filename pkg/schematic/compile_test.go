package schematic

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompilePinsTranslation(t *testing.T) {
	doc := &Document{
		Symbols: map[string]SymbolDef{
			"S": {Name: "S", Pins: map[string]Point{"p": {X: 2, Y: 3}}},
		},
		Placements: []Placement{
			{Refdes: "U1", SymbolID: "S", At: Point{X: 100, Y: 50}, Rotation: 0},
		},
	}

	pins, diags := CompilePins(doc)
	if len(diags) != 0 {
		t.Fatalf("Unexpected diagnostics: %v", diags)
	}

	p := pins["U1"]["p"]
	if !almostEqual(p.X, 102) {
		t.Errorf("Expected X=102, got %v", p.X)
	}
	// Vertical sign flips at the translation step.
	if !almostEqual(p.Y, 47) {
		t.Errorf("Expected Y=47, got %v", p.Y)
	}
}

func TestCompilePinsRotation(t *testing.T) {
	doc := &Document{
		Symbols: map[string]SymbolDef{
			"S": {Name: "S", Pins: map[string]Point{"p": {X: 1, Y: 0}}},
		},
		Placements: []Placement{
			{Refdes: "U1", SymbolID: "S", At: Point{X: 10, Y: 10}, Rotation: 90},
		},
	}

	pins, _ := CompilePins(doc)
	p := pins["U1"]["p"]

	// (1,0) rotated 90° is (0,1); translation flips the vertical sign.
	if !almostEqual(p.X, 10) {
		t.Errorf("Expected X=10, got %v", p.X)
	}
	if !almostEqual(p.Y, 9) {
		t.Errorf("Expected Y=9, got %v", p.Y)
	}
}

func TestCompilePinsFlipAfterRotation(t *testing.T) {
	// The Y flip must happen at translation, not before rotation. With the
	// flip applied first, a 90° rotation of (0,1) would land at +1 instead
	// of -1 relative to the origin.
	doc := &Document{
		Symbols: map[string]SymbolDef{
			"S": {Name: "S", Pins: map[string]Point{"p": {X: 0, Y: 1}}},
		},
		Placements: []Placement{
			{Refdes: "U1", SymbolID: "S", At: Point{X: 0, Y: 0}, Rotation: 90},
		},
	}

	pins, _ := CompilePins(doc)
	p := pins["U1"]["p"]

	// (0,1) rotated 90° is (-1,0); flip leaves Y at 0.
	if !almostEqual(p.X, -1) {
		t.Errorf("Expected X=-1, got %v", p.X)
	}
	if !almostEqual(p.Y, 0) {
		t.Errorf("Expected Y=0, got %v", p.Y)
	}
}

func TestCompilePinsUnknownSymbol(t *testing.T) {
	doc := &Document{
		Symbols: map[string]SymbolDef{},
		Placements: []Placement{
			{Refdes: "U9", SymbolID: "Missing:SYM", At: Point{X: 0, Y: 0}},
		},
	}

	pins, diags := CompilePins(doc)
	if len(pins) != 0 {
		t.Errorf("Expected no pins, got %d instances", len(pins))
	}
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(diags))
	}
}

func TestNormalizeValue(t *testing.T) {
	// 12.34 mm snaps to 12.3, converts to inches, rounds to 5 digits.
	got := NormalizeValue(12.34, UnitScale)
	want := 0.48425
	if !almostEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeValueSnapsBeforeScaling(t *testing.T) {
	// 0.04 mm snaps to 0.0 before the conversion multiply; scaling first
	// would give a nonzero result.
	if got := NormalizeValue(0.04, UnitScale); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
}

func TestNormalizePure(t *testing.T) {
	pins := AbsolutePins{"U1": {"p": {X: 25.4, Y: 50.8}}}
	wires := []WireSegment{{ID: "w", A: Point{X: 25.4, Y: 0}, B: Point{X: 50.8, Y: 0}}}

	outPins := NormalizePins(pins, UnitScale)
	outWires := NormalizeWires(wires, UnitScale)

	if pins["U1"]["p"].X != 25.4 {
		t.Error("NormalizePins mutated its input")
	}
	if wires[0].A.X != 25.4 {
		t.Error("NormalizeWires mutated its input")
	}
	if !almostEqual(outPins["U1"]["p"].X, 1.0) {
		t.Errorf("Expected 1.0 inch, got %v", outPins["U1"]["p"].X)
	}
	if !almostEqual(outWires[0].B.X, 2.0) {
		t.Errorf("Expected 2.0 inch, got %v", outWires[0].B.X)
	}
}
