package overlay

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/harnesslab/netoverlay/pkg/schematic"
)

// RenderOptions controls overlay SVG generation. All lengths are in the
// SVG's millimeter coordinate space unless noted.
type RenderOptions struct {
	// StrokeWidthInches is the base line width of connection paths.
	StrokeWidthInches float64

	// MaskWidthMM is the width of the rectangle masking each raw wire.
	MaskWidthMM float64

	// MinLabelLengthMM is the minimum intra-chain segment length that gets
	// a centered name label.
	MinLabelLengthMM float64

	// PaperColor fills the wire masks so the original line art disappears
	// into the sheet background.
	PaperColor string

	// LabelFontSizeMM is the font size used in label boxes.
	LabelFontSizeMM float64

	// DebugMarks draws each node's bundle circle and every bundle point.
	DebugMarks bool

	// GroupID tags the injected layer group so downstream tooling can
	// locate the start and end of overlay content.
	GroupID string
}

// DefaultRenderOptions returns the standard overlay styling.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		StrokeWidthInches: 0.003,
		MaskWidthMM:       1.0,
		MinLabelLengthMM:  30.0,
		PaperColor:        "#F5F4EF",
		LabelFontSizeMM:   0.2,
		GroupID:           "net-overlay",
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// labelBox renders a rotated text box centered at (x, y) in draw space.
// The tangent angle orients the box along the wire; angles that would
// render the text upside down are flipped 180 degrees for readability.
func labelBox(x, y, angle float64, text, textColor, background, outline string, fontMM float64) string {
	if strings.TrimSpace(text) == "" {
		text = "?"
	}
	escaped := textEscaper.Replace(text)

	// Draw space carries a flipped vertical axis; unflip for SVG output.
	ySVG := -y

	angle = normalizeAngle(angle)
	if angle > 90 && angle < 270 {
		angle = normalizeAngle(angle + 180)
	}

	charWidth := fontMM * 1.2
	textWidth := float64(len(escaped)) * charWidth
	const horizontalPadding = 0.3
	width := (textWidth + horizontalPadding*2) * 1.75
	height := fontMM * 4

	strokeColor := outline
	strokeWidth := 0.05
	if background == "black" {
		// Stroke matches the box so no outline shows.
		strokeColor = background
		strokeWidth = 0.2
	}

	return fmt.Sprintf(
		`<g transform="translate(%.3f,%.3f) rotate(%.3f)">`+
			`<rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="%s" stroke="%s" stroke-width="%g"/>`+
			`<text x="0" y="0" text-anchor="middle" style="fill:%s;dominant-baseline:middle;font-family:Arial, Helvetica, sans-serif;font-size:%gmm">%s</text>`+
			`</g>`,
		x, ySVG, -angle,
		-width/2, -height/2, width, height, background, strokeColor, strokeWidth,
		textColor, fontMM, escaped,
	)
}

// styledPath renders a connection polyline as an outline stroke under a
// base-color stroke.
func styledPath(chain []ChainPoint, style Style, strokeWidthInches float64) string {
	if len(chain) == 0 {
		return ""
	}

	base := style.BaseColor
	if base == "" {
		base = "blue"
	}
	outline := style.OutlineColor
	if outline == "" {
		outline = "black"
	}

	var d strings.Builder
	for i, p := range chain {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&d, "%s %.3f %.3f ", cmd, p.X, -p.Y)
	}
	path := strings.TrimSpace(d.String())

	baseWidth := strokeWidthInches * schematic.MMPerInch
	outlineWidth := baseWidth * 3

	return fmt.Sprintf(
		`<g fill="none"><path d="%s" stroke="%s" stroke-width="%.4f"/><path d="%s" stroke="%s" stroke-width="%.4f"/></g>`,
		path, outline, outlineWidth, path, base, baseWidth,
	)
}

// wireMask renders a rotated rectangle fully occluding one raw wire. The
// wire is given in canonical inches; the mask extends past both endpoints
// by half the mask width.
func wireMask(w schematic.WireSegment, widthMM float64, paperColor string) string {
	ax := w.A.X * schematic.MMPerInch
	ay := w.A.Y * schematic.MMPerInch
	bx := w.B.X * schematic.MMPerInch
	by := w.B.Y * schematic.MMPerInch

	dx := bx - ax
	dy := by - ay
	length := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	cx := (ax + bx) / 2
	cy := (ay + by) / 2

	halfLength := (length + widthMM) / 2
	halfWidth := widthMM / 2

	corners := [4][2]float64{
		{-halfLength, -halfWidth},
		{halfLength, -halfWidth},
		{halfLength, halfWidth},
		{-halfLength, halfWidth},
	}

	sin, cos := math.Sincos(angle)
	points := make([]string, 0, 4)
	for _, c := range corners {
		rx := c[0]*cos - c[1]*sin
		ry := c[0]*sin + c[1]*cos
		points = append(points, fmt.Sprintf("%.3f,%.3f", cx+rx, cy+ry))
	}

	return fmt.Sprintf(`<polygon points="%s" fill="%s" stroke="none" />`, strings.Join(points, " "), paperColor)
}

// renderConnection emits the styled path and labels for one connection.
func renderConnection(conn Connection, chain []ChainPoint, opts RenderOptions) []string {
	if len(chain) == 0 {
		return nil
	}

	groups := []string{styledPath(chain, conn.Style, opts.StrokeWidthInches)}

	// End labels: black boxes at the chain's first and last points.
	first, last := chain[0], chain[len(chain)-1]
	groups = append(groups,
		labelBox(first.X, first.Y, first.Tangent, conn.LabelAtA, "white", "black", "black", opts.LabelFontSizeMM),
		labelBox(last.X, last.Y, last.Tangent, conn.LabelAtB, "white", "black", "black", opts.LabelFontSizeMM),
	)

	// Centered name label on every long enough intra-chain segment.
	for i := 0; i+1 < len(chain); i++ {
		a, b := chain[i], chain[i+1]
		if math.Hypot(b.X-a.X, b.Y-a.Y) < opts.MinLabelLengthMM {
			continue
		}
		groups = append(groups, labelBox(
			(a.X+b.X)/2, (a.Y+b.Y)/2, a.Tangent,
			conn.CenterLabel, "black", "white", "black", opts.LabelFontSizeMM,
		))
	}

	return groups
}

func sortedBundleNodeIDs(b *Bundles) []string {
	ids := make([]string, 0, len(b.Nodes))
	for id := range b.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedBundleKeys(b *Bundles) []BundleKey {
	keys := make([]BundleKey, 0, len(b.Points))
	for k := range b.Points {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Node != keys[j].Node {
			return keys[i].Node < keys[j].Node
		}
		if keys[i].Segment != keys[j].Segment {
			return keys[i].Segment < keys[j].Segment
		}
		return keys[i].Connection < keys[j].Connection
	})
	return keys
}

// ResolvedChain pairs a connection with its assembled draw-space chain
// and the ids of the wire segments the path traverses.
type ResolvedChain struct {
	Connection Connection
	Points     []ChainPoint
	Segments   []string
}

// RenderOverlayGroup renders the complete overlay layer as one <g>
// element bracketed by empty marker elements, ready for injection into a
// base document. Every raw wire is masked, traversed or not, so the
// overlay lines are the only visible wire art; the layer order is masks,
// then paths, then labels.
func RenderOverlayGroup(wires []schematic.WireSegment, chains []ResolvedChain, bundles *Bundles, opts RenderOptions) string {
	var sb strings.Builder

	start, end := markerElements(opts.GroupID)
	sb.WriteString(start)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, `<g id="%s">`+"\n", opts.GroupID)

	for _, w := range wires {
		sb.WriteString(wireMask(w, opts.MaskWidthMM, opts.PaperColor))
		sb.WriteString("\n")
	}

	for _, rc := range chains {
		for _, g := range renderConnection(rc.Connection, rc.Points, opts) {
			sb.WriteString(g)
			sb.WriteString("\n")
		}
	}

	if opts.DebugMarks && bundles != nil {
		for _, g := range debugMarks(bundles) {
			sb.WriteString(g)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("</g>\n")
	sb.WriteString(end)
	return sb.String()
}

// WrapOverlayGroup wraps rendered overlay markup in a standalone document
// using the base drawing's frame, so the overlay aligns when stacked over it.
func WrapOverlayGroup(frame Frame, group string) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s">`+"\n%s\n</svg>\n",
		frame.ViewBox, frame.Width, frame.Height, group,
	)
}

// debugMarks emits each node's bundle circle and every bundle point.
func debugMarks(bundles *Bundles) []string {
	var groups []string
	for _, id := range sortedBundleNodeIDs(bundles) {
		nb := bundles.Nodes[id]
		groups = append(groups, fmt.Sprintf(
			`<circle cx="%.3f" cy="%.3f" r="%.3f" fill="gray" opacity="0.5" />`,
			nb.CenterX, nb.CenterY, nb.Radius))
	}
	for _, key := range sortedBundleKeys(bundles) {
		p := bundles.Points[key]
		groups = append(groups, fmt.Sprintf(
			`<circle cx="%.3f" cy="%.3f" r="0.8" fill="red" />`, p.X, -p.Y))
	}
	return groups
}
