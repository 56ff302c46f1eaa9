// Package netgraph builds the connectivity graph of a schematic: coincident
// pin and wire-endpoint locations merge into nodes, wires become undirected
// segments between them.
package netgraph

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/harnesslab/netoverlay/pkg/schematic"
)

// Tolerance is the spatial rounding resolution for node identity, in
// canonical units. Two coordinates are the same node iff they are equal
// after rounding to this resolution. It must exceed the floating-point
// error of the compiler's rotation and scale arithmetic or physically
// connected points split into spurious nodes.
const Tolerance = 0.01

const junctionPrefix = "wirejunction-"

// Node is a unique physical point in the graph: a pin or a synthesized
// wire junction.
type Node struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is an undirected wire edge between two nodes.
type Segment struct {
	EndA string `json:"node_at_end_a"`
	EndB string `json:"node_at_end_b"`
}

// Graph is the canonical node/segment connectivity graph. It is
// JSON-serializable in the shape downstream tooling consumes.
type Graph struct {
	Nodes    map[string]Node    `json:"nodes"`
	Segments map[string]Segment `json:"segments"`
}

// Stats summarizes a built graph.
type Stats struct {
	PinNodes      int
	JunctionNodes int
	Segments      int
}

// PinNodeID forms the node id of a pin.
func PinNodeID(refdes, pinName string) string {
	return refdes + "." + pinName
}

// IsJunction reports whether a node id names a synthesized wire junction.
func IsJunction(id string) bool {
	return strings.HasPrefix(id, junctionPrefix)
}

type locationKey struct {
	x, y float64
}

// Builder constructs graphs. The junction counter is builder state, not a
// process-wide global, so builds stay reentrant and junction ids are stable
// within one build only. Callers must not persist junction ids across builds.
type Builder struct {
	junctionSeq int
	byLocation  map[locationKey]string
}

func NewBuilder() *Builder {
	return &Builder{byLocation: make(map[locationKey]string)}
}

func roundCoord(v float64) float64 {
	return math.Round(v/Tolerance) * Tolerance
}

func keyOf(p schematic.Point) locationKey {
	return locationKey{x: roundCoord(p.X), y: roundCoord(p.Y)}
}

// Build merges pins and wire endpoints into a graph. Pins register first,
// so when a pin and a wire endpoint round to the same location the pin node
// wins. Every raw wire endpoint maps to exactly one node; no two nodes
// occupy the same rounded location.
func (b *Builder) Build(pins schematic.AbsolutePins, wires []schematic.WireSegment) *Graph {
	g := &Graph{
		Nodes:    make(map[string]Node),
		Segments: make(map[string]Segment, len(wires)),
	}

	// Register pins in sorted order so first-writer-wins is deterministic.
	for _, refdes := range pins.SortedRefdes() {
		for _, pinName := range pins.SortedPinNames(refdes) {
			p := pins[refdes][pinName]
			id := PinNodeID(refdes, pinName)
			g.Nodes[id] = Node{X: roundTo(p.X), Y: roundTo(p.Y)}

			key := keyOf(p)
			if _, taken := b.byLocation[key]; !taken {
				b.byLocation[key] = id
			}
		}
	}

	for _, w := range wires {
		a := b.nodeAt(g, w.A)
		bEnd := b.nodeAt(g, w.B)
		g.Segments[w.ID] = Segment{EndA: a, EndB: bEnd}
	}

	return g
}

// nodeAt returns the node id at a location, synthesizing a junction when no
// known node rounds to it.
func (b *Builder) nodeAt(g *Graph, p schematic.Point) string {
	key := keyOf(p)
	if id, ok := b.byLocation[key]; ok {
		return id
	}

	id := fmt.Sprintf("%s%d", junctionPrefix, b.junctionSeq)
	b.junctionSeq++
	g.Nodes[id] = Node{X: roundTo(p.X), Y: roundTo(p.Y)}
	b.byLocation[key] = id
	return id
}

func roundTo(v float64) float64 {
	pow := math.Pow(10, schematic.OutputPrecision)
	return math.Round(v*pow) / pow
}

// Stats counts pin nodes, junction nodes, and segments.
func (g *Graph) Stats() Stats {
	s := Stats{Segments: len(g.Segments)}
	for id := range g.Nodes {
		if IsJunction(id) {
			s.JunctionNodes++
		} else {
			s.PinNodes++
		}
	}
	return s
}

// SortedNodeIDs returns every node id in lexicographic order.
func (g *Graph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalIndent serializes the graph as indented JSON.
func (g *Graph) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
