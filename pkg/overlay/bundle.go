package overlay

import (
	"math"
	"sort"

	"github.com/harnesslab/netoverlay/pkg/netgraph"
	"github.com/harnesslab/netoverlay/pkg/schematic"
)

// SpacingInches is the per-connection spacing between parallel overlay
// lines, in canonical units.
const SpacingInches = 0.05

// radiusExponent keeps bundle radii compact for few connections without
// excessive growth for many.
const radiusExponent = 0.7

// DrawPoint is a location in draw space: millimeters, vertical axis flipped
// relative to the document frame.
type DrawPoint struct {
	X float64
	Y float64
}

// BundleKey addresses the point where one connection's line crosses one
// node's perimeter along one segment.
type BundleKey struct {
	Node       string
	Segment    string
	Connection string
}

// NodeBundle describes a node's bundle circle in document millimeters
// (unflipped), for the renderer's debug marks.
type NodeBundle struct {
	CenterX float64
	CenterY float64
	Radius  float64
}

// Bundles is the full bundle-point assignment for one resolved path set.
type Bundles struct {
	Points map[BundleKey]DrawPoint
	Nodes  map[string]NodeBundle
}

// ComputeBundles assigns a perimeter point to every (node, segment,
// connection) triple occurring in the resolved paths. The assignment is a
// pure function of the graph and path set: re-running produces identical
// coordinates.
func ComputeBundles(g *netgraph.Graph, paths []ResolvedPath) *Bundles {
	b := &Bundles{
		Points: make(map[BundleKey]DrawPoint),
		Nodes:  make(map[string]NodeBundle),
	}

	// Which paths use each segment, and each path's grouping key.
	usedBy := make(map[string][]string) // segment id -> connection names
	group := make(map[string]string)    // connection name -> group key
	for _, rp := range paths {
		group[rp.Connection.Name] = rp.Connection.groupKey()
		for _, hop := range rp.Hops {
			usedBy[hop.Segment] = append(usedBy[hop.Segment], rp.Connection.Name)
		}
	}

	for _, nodeID := range sortedNodeIDs(g) {
		b.computeNode(g, nodeID, usedBy, group)
	}
	return b
}

type touchingSegment struct {
	id      string
	angle   float64 // outward angle toward the far endpoint, degrees, mm frame
	flipped bool    // node is the segment's B end
}

func (b *Bundles) computeNode(g *netgraph.Graph, nodeID string, usedBy map[string][]string, group map[string]string) {
	node := g.Nodes[nodeID]
	xMM := node.X * schematic.MMPerInch
	yMM := node.Y * schematic.MMPerInch

	var touching []touchingSegment
	for _, segID := range g.TouchingSegments(nodeID) {
		seg := g.Segments[segID]
		farID := seg.EndB
		flipped := false
		if seg.EndB == nodeID && seg.EndA != nodeID {
			farID = seg.EndA
			flipped = true
		}
		far := g.Nodes[farID]
		dx := (far.X - node.X) * schematic.MMPerInch
		dy := (far.Y - node.Y) * schematic.MMPerInch
		touching = append(touching, touchingSegment{
			id:      segID,
			angle:   math.Atan2(dy, dx) * 180 / math.Pi,
			flipped: flipped,
		})
	}

	// Bundle size depends on the number of distinct components passing
	// through the node, where connections sharing a group key count once.
	seen := make(map[string]bool)
	for _, ts := range touching {
		for _, name := range usedBy[ts.id] {
			seen[group[name]] = true
		}
	}
	componentCount := len(seen)
	if componentCount == 0 {
		return
	}

	radiusMM := math.Pow(float64(componentCount), radiusExponent) * SpacingInches * schematic.MMPerInch
	b.Nodes[nodeID] = NodeBundle{CenterX: xMM, CenterY: yMM, Radius: radiusMM}

	for _, ts := range touching {
		names := append([]string(nil), usedBy[ts.id]...)
		if len(names) == 0 {
			continue
		}

		// Sort ascending; reverse when the segment runs backward relative
		// to this node, so a connection lands on the same relative side
		// when viewed from either end of the wire.
		sort.Strings(names)
		if ts.flipped {
			reverse(names)
		}

		n := len(names)
		for idx, name := range names {
			// Linear perpendicular offset from the bundle center, mapped
			// through arcsine so the point stays on the perimeter circle.
			offsetMM := (float64(idx+1) - float64(n)/2 - 0.5) * SpacingInches * schematic.MMPerInch
			delta := 0.0
			if radiusMM > 0 {
				if ratio := offsetMM / radiusMM; ratio >= -1 && ratio <= 1 {
					delta = math.Asin(ratio) * 180 / math.Pi
				}
			}

			finalAngle := (ts.angle + delta) * math.Pi / 180
			px := xMM + radiusMM*math.Cos(finalAngle)
			py := yMM + radiusMM*math.Sin(finalAngle)

			b.Points[BundleKey{Node: nodeID, Segment: ts.id, Connection: name}] = DrawPoint{
				X: px,
				Y: -py, // draw-space vertical flip
			}
		}
	}
}

func sortedNodeIDs(g *netgraph.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
