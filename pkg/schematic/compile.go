package schematic

import (
	"fmt"
	"math"
	"sort"
)

// Unit handling. Schematic files store coordinates in millimeters; the
// canonical working unit is inches.
const (
	MMPerInch = 25.4

	// UnitScale converts document-native millimeters to canonical inches.
	UnitScale = 1.0 / MMPerInch

	// OutputPrecision is the number of decimal digits kept after unit
	// conversion, eliminating floating-point noise from the multiply.
	OutputPrecision = 5
)

// CompilePins computes the absolute location of every pin of every placed
// instance: the pin's relative offset is rotated by the instance rotation,
// then translated by the instance origin. The symbol-definition frame and
// the placement frame disagree on vertical sign, so the Y sign flip is
// applied at the final translation step only. That ordering is load-bearing.
//
// Placements referencing an unknown symbol are skipped; each produces a
// diagnostic rather than an error.
func CompilePins(doc *Document) (AbsolutePins, []string) {
	pins := make(AbsolutePins)
	var diagnostics []string

	for _, placement := range doc.Placements {
		def, ok := doc.Symbols[placement.SymbolID]
		if !ok {
			diagnostics = append(diagnostics, fmt.Sprintf(
				"no pin templates for symbol %q (used by %s)", placement.SymbolID, placement.Refdes))
			continue
		}

		byName := make(map[string]Point, len(def.Pins))
		for name, offset := range def.Pins {
			rx, ry := rotate(offset.X, offset.Y, placement.Rotation)
			byName[name] = Point{
				X: placement.At.X + rx,
				Y: placement.At.Y - ry, // frames disagree on vertical sign
			}
		}
		pins[placement.Refdes] = byName
	}

	return pins, diagnostics
}

// rotate applies a rotation in degrees with standard trigonometric sign.
func rotate(x, y, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return x*cos - y*sin, x*sin + y*cos
}

// NormalizeValue snaps a document-native coordinate to the nearest 0.1 of
// the native minor unit, converts it by scale, and rounds the result to
// OutputPrecision digits. Snapping happens before the conversion multiply.
func NormalizeValue(v, scale float64) float64 {
	snapped := math.Round(v*10) / 10
	return roundTo(snapped*scale, OutputPrecision)
}

// NormalizePoint normalizes both coordinates of a point.
func NormalizePoint(p Point, scale float64) Point {
	return Point{
		X: NormalizeValue(p.X, scale),
		Y: NormalizeValue(p.Y, scale),
	}
}

// NormalizePins returns a new pin map with every location normalized.
// The input is not mutated.
func NormalizePins(pins AbsolutePins, scale float64) AbsolutePins {
	out := make(AbsolutePins, len(pins))
	for refdes, byName := range pins {
		normalized := make(map[string]Point, len(byName))
		for name, p := range byName {
			normalized[name] = NormalizePoint(p, scale)
		}
		out[refdes] = normalized
	}
	return out
}

// NormalizeWires returns a new wire slice with every endpoint normalized.
// The input is not mutated.
func NormalizeWires(wires []WireSegment, scale float64) []WireSegment {
	out := make([]WireSegment, len(wires))
	for i, w := range wires {
		out[i] = WireSegment{
			ID: w.ID,
			A:  NormalizePoint(w.A, scale),
			B:  NormalizePoint(w.B, scale),
		}
	}
	return out
}

func roundTo(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}

// SortedRefdes returns the refdes keys of a pin map in lexicographic order.
func (p AbsolutePins) SortedRefdes() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedPinNames returns the pin names of one instance in lexicographic order.
func (p AbsolutePins) SortedPinNames(refdes string) []string {
	byName := p[refdes]
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
