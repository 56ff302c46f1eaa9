package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harnesslab/netoverlay/pkg/netgraph"
	"github.com/harnesslab/netoverlay/pkg/schematic"
)

// twoPinGraph is a single horizontal segment between two pin nodes,
// one inch apart.
func twoPinGraph() *netgraph.Graph {
	return &netgraph.Graph{
		Nodes: map[string]netgraph.Node{
			"A.1": {X: 0, Y: 0},
			"B.1": {X: 1, Y: 0},
		},
		Segments: map[string]netgraph.Segment{
			"w1": {EndA: "A.1", EndB: "B.1"},
		},
	}
}

func pathsOver(names ...string) []ResolvedPath {
	paths := make([]ResolvedPath, len(names))
	for i, name := range names {
		paths[i] = ResolvedPath{
			Connection: Connection{
				Name: name,
				From: Endpoint{Refdes: "A", Connector: "1"},
				To:   Endpoint{Refdes: "B", Connector: "1"},
			},
			Hops: []netgraph.Hop{{Segment: "w1", Direction: netgraph.AToB}},
		}
	}
	return paths
}

func TestBundleRadiusGrowsSublinearly(t *testing.T) {
	g := twoPinGraph()
	b := ComputeBundles(g, pathsOver("c1", "c2", "c3"))

	nb, ok := b.Nodes["A.1"]
	require.True(t, ok, "node A.1 should have a bundle")

	want := math.Pow(3, 0.7) * SpacingInches * schematic.MMPerInch
	assert.InDelta(t, want, nb.Radius, 1e-9)
}

func TestBundleSingleConnectionCentered(t *testing.T) {
	g := twoPinGraph()
	b := ComputeBundles(g, pathsOver("only"))

	p, ok := b.Points[BundleKey{Node: "A.1", Segment: "w1", Connection: "only"}]
	require.True(t, ok)

	// A lone connection leaves the node exactly along the segment, at
	// bundle-radius distance toward B.
	radius := SpacingInches * schematic.MMPerInch
	assert.InDelta(t, radius, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}

func TestBundleOffsetsSymmetric(t *testing.T) {
	g := twoPinGraph()
	b := ComputeBundles(g, pathsOver("c1", "c2", "c3"))

	nb := b.Nodes["A.1"]
	angles := make(map[string]float64)
	for _, name := range []string{"c1", "c2", "c3"} {
		p, ok := b.Points[BundleKey{Node: "A.1", Segment: "w1", Connection: name}]
		require.True(t, ok, name)
		// Unflip Y before measuring the angle from the node center.
		angles[name] = math.Atan2(-p.Y-nb.CenterY, p.X-nb.CenterX) * 180 / math.Pi
	}

	// The middle connection sits on the segment axis; the outer two are
	// mirror images of each other.
	assert.InDelta(t, 0, angles["c2"], 1e-9)
	assert.InDelta(t, -angles["c1"], angles["c3"], 1e-9)
	assert.Greater(t, math.Abs(angles["c1"]), 1.0, "outer connections must spread")
}

func TestBundleSideConsistentAcrossEnds(t *testing.T) {
	g := twoPinGraph()
	b := ComputeBundles(g, pathsOver("c1", "c2"))

	aEnd := b.Points[BundleKey{Node: "A.1", Segment: "w1", Connection: "c1"}]
	bEnd := b.Points[BundleKey{Node: "B.1", Segment: "w1", Connection: "c1"}]

	// The name order reverses at the far end, so the same connection stays
	// on the same side of the wire when walking from A to B.
	assert.InDelta(t, aEnd.Y, bEnd.Y, 1e-9)
}

func TestBundleGroupedConnectionsCountOnce(t *testing.T) {
	g := twoPinGraph()
	paths := pathsOver("c1", "c2", "c3")
	for i := range paths {
		paths[i].Connection.Group = "shared"
	}
	b := ComputeBundles(g, paths)

	// Three connections in one group size the bundle like a single run.
	want := SpacingInches * schematic.MMPerInch
	assert.InDelta(t, want, b.Nodes["A.1"].Radius, 1e-9)
}

func TestBundleUnusedNodeSkipped(t *testing.T) {
	g := twoPinGraph()
	g.Nodes["C.1"] = netgraph.Node{X: 5, Y: 5}

	b := ComputeBundles(g, pathsOver("c1"))
	_, ok := b.Nodes["C.1"]
	assert.False(t, ok, "node with no overlay traffic gets no bundle")
}

func TestBundleDeterministic(t *testing.T) {
	g := twoPinGraph()
	paths := pathsOver("c1", "c2", "c3", "c4")

	first := ComputeBundles(g, paths)
	for i := 0; i < 20; i++ {
		again := ComputeBundles(g, paths)
		require.Equal(t, first.Points, again.Points)
		require.Equal(t, first.Nodes, again.Nodes)
	}
}
