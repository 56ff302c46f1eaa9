package overlay

import (
	"errors"
	"fmt"
	"math"

	"github.com/harnesslab/netoverlay/pkg/netgraph"
	"github.com/harnesslab/netoverlay/pkg/schematic"
)

// ChainPoint is one draw point of a connection's polyline, with the tangent
// angle of the segment it sits on (degrees, normalized into [0, 360)).
type ChainPoint struct {
	X       float64
	Y       float64
	Tangent float64
}

// ErrMissingBundlePoint means chain assembly could not find a bundle point
// that the bundle engine should have produced for the same path set. A
// silently skipped point draws a visually broken line, so this is surfaced
// as a per-connection error.
var ErrMissingBundlePoint = errors.New("missing bundle point")

// AssembleChain concatenates the entry and exit bundle points of every hop
// of a resolved path, in traversal order.
func AssembleChain(g *netgraph.Graph, rp ResolvedPath, bundles *Bundles) ([]ChainPoint, error) {
	conn := rp.Connection.Name
	chain := make([]ChainPoint, 0, 2*len(rp.Hops))

	for _, hop := range rp.Hops {
		seg, ok := g.Segments[hop.Segment]
		if !ok {
			return nil, fmt.Errorf("connection %s: segment %s not in graph", conn, hop.Segment)
		}

		a := g.Nodes[seg.EndA]
		bNode := g.Nodes[seg.EndB]
		dx := (bNode.X - a.X) * schematic.MMPerInch
		dy := (bNode.Y - a.Y) * schematic.MMPerInch

		// Negated because bundle points store a flipped vertical axis:
		// flipping Y turns a vector at angle t into angle -t.
		tangent := normalizeAngle(-math.Atan2(dy, dx) * 180 / math.Pi)

		entry, exit := seg.EndA, seg.EndB
		if hop.Direction == netgraph.BToA {
			entry, exit = seg.EndB, seg.EndA
			tangent = normalizeAngle(tangent + 180)
		}

		for _, nodeID := range []string{entry, exit} {
			p, ok := bundles.Points[BundleKey{Node: nodeID, Segment: hop.Segment, Connection: conn}]
			if !ok {
				return nil, fmt.Errorf("%w: connection %s at node %s, segment %s",
					ErrMissingBundlePoint, conn, nodeID, hop.Segment)
			}
			chain = append(chain, ChainPoint{X: p.X, Y: p.Y, Tangent: tangent})
		}
	}

	return chain, nil
}

// normalizeAngle maps an angle in degrees into [0, 360).
func normalizeAngle(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}
