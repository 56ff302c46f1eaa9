package overlay

import (
	"errors"
	"fmt"

	"github.com/harnesslab/netoverlay/pkg/netgraph"
	"github.com/harnesslab/netoverlay/pkg/schematic"
)

// ConnectionError records a single connection's failure without aborting
// the batch.
type ConnectionError struct {
	Connection string
	Err        error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("connection %s: %v", e.Connection, e.Err)
}

func (e ConnectionError) Unwrap() error { return e.Err }

// Report aggregates per-connection outcomes and compile diagnostics from
// one overlay build.
type Report struct {
	// Diagnostics are non-fatal compiler warnings, such as placements
	// referencing unknown symbols.
	Diagnostics []string

	// ConnectionErrors lists the connections that could not be resolved
	// or drawn. The rest of the batch still renders.
	ConnectionErrors []ConnectionError

	// Notes are informational, such as zero-hop connections that need no
	// overlay line.
	Notes []string
}

// Failed reports whether any connection failed.
func (r *Report) Failed() bool { return len(r.ConnectionErrors) > 0 }

// Err joins all connection errors into one, or nil when none failed.
func (r *Report) Err() error {
	if !r.Failed() {
		return nil
	}
	errs := make([]error, len(r.ConnectionErrors))
	for i, ce := range r.ConnectionErrors {
		errs[i] = ce
	}
	return errors.Join(errs...)
}

// Result is the full output of one overlay build.
type Result struct {
	Graph  *netgraph.Graph
	Paths  []ResolvedPath
	Chains []ResolvedChain

	// Group is the overlay layer markup, marker elements included, ready
	// for Composite.
	Group string

	// SVG is the standalone overlay document framed like the base drawing.
	SVG string

	Report Report
}

// BuildGraph compiles a parsed schematic into its canonical connectivity
// graph, returning the graph, the normalized wires, and any compile
// diagnostics.
func BuildGraph(doc *schematic.Document) (*netgraph.Graph, []schematic.WireSegment, []string) {
	pins, diags := schematic.CompilePins(doc)
	pins = schematic.NormalizePins(pins, schematic.UnitScale)
	wires := schematic.NormalizeWires(doc.Wires, schematic.UnitScale)
	g := netgraph.NewBuilder().Build(pins, wires)
	return g, wires, diags
}

// BuildOverlay runs the whole pipeline: compile pins, build the graph,
// resolve every requested connection, lay out bundle geometry, assemble
// chains, and render the overlay SVG against the given frame. Individual
// connection failures land in the report; the returned error covers only
// conditions that invalidate the entire build.
func BuildOverlay(doc *schematic.Document, conns []Connection, frame Frame, opts RenderOptions) (*Result, error) {
	res := &Result{}

	g, wires, diags := BuildGraph(doc)
	res.Graph = g
	res.Report.Diagnostics = diags

	for _, conn := range conns {
		hops, err := netgraph.Resolve(g, conn.FromNodeID(), conn.ToNodeID())
		if err != nil {
			res.Report.ConnectionErrors = append(res.Report.ConnectionErrors,
				ConnectionError{Connection: conn.Name, Err: err})
			continue
		}
		res.Paths = append(res.Paths, ResolvedPath{Connection: conn, Hops: hops})
	}

	bundles := ComputeBundles(g, res.Paths)

	for _, rp := range res.Paths {
		if len(rp.Hops) == 0 {
			// Both endpoints merged into one node; nothing to draw.
			res.Report.Notes = append(res.Report.Notes,
				fmt.Sprintf("connection %s: endpoints share a node, no overlay line", rp.Connection.Name))
			continue
		}
		points, err := AssembleChain(g, rp, bundles)
		if err != nil {
			res.Report.ConnectionErrors = append(res.Report.ConnectionErrors,
				ConnectionError{Connection: rp.Connection.Name, Err: err})
			continue
		}
		segs := make([]string, len(rp.Hops))
		for i, hop := range rp.Hops {
			segs[i] = hop.Segment
		}
		res.Chains = append(res.Chains, ResolvedChain{
			Connection: rp.Connection,
			Points:     points,
			Segments:   segs,
		})
	}

	res.Group = RenderOverlayGroup(wires, res.Chains, bundles, opts)
	res.SVG = WrapOverlayGroup(frame, res.Group)
	return res, nil
}
