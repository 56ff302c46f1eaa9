// Package schematic recovers pin geometry, symbol placements, and wire
// segments from KiCad schematic files (.kicad_sch) and compiles them into
// absolute, unit-normalized coordinates.
//
// The scanners are deliberately narrow. Declared fidelity limits of the
// source format support, enforced by not attempting to handle them:
//
//   - single page only; hierarchical sheets are not followed
//   - bus wiring primitives (bus, bus_entry) are not extracted
//   - a junction carrying more than one electrically distinct circuit is
//     not distinguished
package schematic

// Point is a 2D coordinate. Units depend on processing stage: document-native
// millimeters after parsing, canonical inches after Normalize.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SymbolDef holds the pin templates of one library symbol: pin name to
// offset relative to the symbol's local origin, pre-rotation. Immutable
// once parsed.
type SymbolDef struct {
	Name string
	Pins map[string]Point
}

// Placement is one symbol instance drawn on the schematic. Created during
// parsing, never mutated afterward.
type Placement struct {
	Refdes   string
	SymbolID string
	At       Point
	Rotation float64 // degrees, standard trigonometric sign
}

// WireSegment is a raw two-point wire primitive.
type WireSegment struct {
	ID string
	A  Point
	B  Point
}

// Document is the subset of a schematic the overlay engine consumes.
type Document struct {
	Symbols    map[string]SymbolDef
	Placements []Placement
	Wires      []WireSegment
}

// AbsolutePins maps refdes to pin name to an absolute pin location.
type AbsolutePins map[string]map[string]Point
