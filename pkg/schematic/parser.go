package schematic

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/harnesslab/netoverlay/pkg/sexp"
)

// ParseFile reads and parses a KiCad schematic file. A missing or unreadable
// file is a fatal error; the caller gets no partial document.
func ParseFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open schematic: %w", err)
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

// Parse extracts pin templates, placements, and wires from schematic text.
// A document with no symbol library or no placed instances yields empty
// collections, not an error: absence of visualizable content is valid.
func Parse(r io.Reader) (*Document, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("read s-expressions: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	root, ok := nodes[0].(sexp.List)
	if !ok || root.Keyword() != "kicad_sch" {
		return nil, fmt.Errorf("not a KiCad schematic: expected kicad_sch root")
	}

	doc := &Document{
		Symbols: scanSymbolDefs(root),
	}
	doc.Placements = scanPlacements(root)
	doc.Wires = scanWires(root)
	return doc, nil
}

// scanSymbolDefs extracts pin templates from the lib_symbols section.
func scanSymbolDefs(root sexp.List) map[string]SymbolDef {
	defs := make(map[string]SymbolDef)

	libs, found := sexp.Find(root, "lib_symbols")
	if !found {
		return defs
	}

	for _, symNode := range sexp.FindAll(libs, "symbol") {
		name, err := sexp.StringAt(symNode, 1)
		if err != nil {
			continue
		}

		def := SymbolDef{Name: name, Pins: make(map[string]Point)}
		scanPins(symNode, def.Pins)
		// Pins usually live in nested symbol units.
		for _, unit := range sexp.FindAll(symNode, "symbol") {
			scanPins(unit, def.Pins)
		}
		defs[name] = def
	}

	return defs
}

// scanPins collects (pin ... (at X Y A) ... (name "N")) records into pins.
func scanPins(node sexp.List, pins map[string]Point) {
	for _, pinNode := range sexp.FindAll(node, "pin") {
		atNode, found := sexp.Find(pinNode, "at")
		if !found {
			continue
		}
		x, errX := sexp.FloatAt(atNode, 1)
		y, errY := sexp.FloatAt(atNode, 2)
		if errX != nil || errY != nil {
			continue
		}

		nameNode, found := sexp.Find(pinNode, "name")
		if !found {
			continue
		}
		name, err := sexp.StringAt(nameNode, 1)
		if err != nil || name == "" {
			continue
		}

		pins[name] = Point{X: x, Y: y}
	}
}

// scanPlacements extracts placed symbol instances: top-level symbol nodes
// carrying a lib_id and a Reference property.
func scanPlacements(root sexp.List) []Placement {
	var placements []Placement

	for _, symNode := range sexp.FindAll(root, "symbol") {
		libNode, found := sexp.Find(symNode, "lib_id")
		if !found {
			continue
		}
		libID, err := sexp.StringAt(libNode, 1)
		if err != nil {
			continue
		}

		atNode, found := sexp.Find(symNode, "at")
		if !found {
			continue
		}
		x, errX := sexp.FloatAt(atNode, 1)
		y, errY := sexp.FloatAt(atNode, 2)
		if errX != nil || errY != nil {
			continue
		}
		// Rotation is optional and stored in degrees.
		rotation, err := sexp.FloatAt(atNode, 3)
		if err != nil {
			rotation = 0
		}

		refdes := referenceProperty(symNode)
		if refdes == "" {
			continue
		}

		placements = append(placements, Placement{
			Refdes:   refdes,
			SymbolID: libID,
			At:       Point{X: x, Y: y},
			Rotation: rotation,
		})
	}

	return placements
}

func referenceProperty(symNode sexp.List) string {
	for _, propNode := range sexp.FindAll(symNode, "property") {
		key, err := sexp.StringAt(propNode, 1)
		if err != nil || key != "Reference" {
			continue
		}
		value, err := sexp.StringAt(propNode, 2)
		if err != nil {
			return ""
		}
		return value
	}
	return ""
}

// scanWires extracts two-point wire primitives. A multi-point wire becomes
// one segment per consecutive point pair. Wires without a uuid get a
// synthesized one so every segment stays addressable downstream.
func scanWires(root sexp.List) []WireSegment {
	var wires []WireSegment

	for _, wireNode := range sexp.FindAll(root, "wire") {
		ptsNode, found := sexp.Find(wireNode, "pts")
		if !found {
			continue
		}

		var points []Point
		for _, xy := range sexp.FindAll(ptsNode, "xy") {
			x, errX := sexp.FloatAt(xy, 1)
			y, errY := sexp.FloatAt(xy, 2)
			if errX != nil || errY != nil {
				continue
			}
			points = append(points, Point{X: x, Y: y})
		}
		if len(points) < 2 {
			continue
		}

		id := ""
		if uuidNode, found := sexp.Find(wireNode, "uuid"); found {
			id, _ = sexp.StringAt(uuidNode, 1)
		}
		if id == "" {
			id = uuid.NewString()
		}

		for i := 0; i+1 < len(points); i++ {
			segID := id
			if i > 0 {
				segID = fmt.Sprintf("%s#%d", id, i)
			}
			wires = append(wires, WireSegment{ID: segID, A: points[i], B: points[i+1]})
		}
	}

	return wires
}
