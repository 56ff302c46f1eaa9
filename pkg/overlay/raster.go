package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/harnesslab/netoverlay/pkg/netgraph"
)

// RasterOptions controls the graph debug rendering.
type RasterOptions struct {
	// DPI sets the raster density. Node coordinates are in inches, so
	// this directly scales the output.
	DPI float64

	// SheetWidthInches and SheetHeightInches give the canvas size.
	SheetWidthInches  float64
	SheetHeightInches float64

	// MarginInches insets the legend from the sheet edge.
	MarginInches float64
}

// DefaultRasterOptions matches a landscape US letter sheet.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		DPI:               300,
		SheetWidthInches:  11,
		SheetHeightInches: 8.5,
		MarginInches:      0.5,
	}
}

var (
	rasterBlack = color.RGBA{A: 255}
	rasterRed   = color.RGBA{R: 200, A: 255}
	rasterBlue  = color.RGBA{B: 200, A: 255}
	rasterGray  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// DebugImage renders the graph onto a white sheet: segments as black
// lines with a blue arrowhead pointing from end A to end B, nodes as red
// dots, and id labels beside both.
func DebugImage(g *netgraph.Graph, opts RasterOptions) (*image.RGBA, error) {
	if opts.DPI <= 0 {
		opts.DPI = DefaultRasterOptions().DPI
	}
	if opts.SheetWidthInches <= 0 || opts.SheetHeightInches <= 0 {
		def := DefaultRasterOptions()
		opts.SheetWidthInches = def.SheetWidthInches
		opts.SheetHeightInches = def.SheetHeightInches
	}
	if opts.MarginInches <= 0 {
		opts.MarginInches = DefaultRasterOptions().MarginInches
	}

	width := int(opts.SheetWidthInches * opts.DPI)
	height := int(opts.SheetHeightInches * opts.DPI)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}

	face, err := rasterFace(opts.DPI)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	// Graph coordinates shift inward by the margin so art near the origin
	// is not clipped at the sheet edge.
	px := func(x float64) int { return int(math.Round((x + opts.MarginInches) * opts.DPI)) }

	segIDs := make([]string, 0, len(g.Segments))
	for id := range g.Segments {
		segIDs = append(segIDs, id)
	}
	sort.Strings(segIDs)

	for _, id := range segIDs {
		seg := g.Segments[id]
		a, b := g.Nodes[seg.EndA], g.Nodes[seg.EndB]
		ax, ay := px(a.X), px(a.Y)
		bx, by := px(b.X), px(b.Y)
		drawLine(img, ax, ay, bx, by, rasterBlack)
		fillTriangle(img, bx, by, math.Atan2(float64(by-ay), float64(bx-ax)), opts.DPI*0.04, rasterBlue)
		drawText(img, face, (ax+bx)/2+4, (ay+by)/2-4, id, rasterGray)
	}

	for _, id := range g.SortedNodeIDs() {
		n := g.Nodes[id]
		x, y := px(n.X), px(n.Y)
		fillCircle(img, x, y, int(opts.DPI*0.012)+2, rasterRed)
		drawText(img, face, x+6, y-6, id, rasterRed)
	}

	// Legend along the bottom margin, in sheet coordinates.
	legendX := int(math.Round(opts.MarginInches * opts.DPI))
	legendY := int(math.Round((opts.SheetHeightInches - opts.MarginInches) * opts.DPI))
	drawText(img, face, legendX, legendY-int(opts.DPI*0.16), "red dot: node", rasterRed)
	drawText(img, face, legendX, legendY-int(opts.DPI*0.08), "black line: segment, arrow at end B", rasterBlack)
	stats := g.Stats()
	drawText(img, face, legendX, legendY,
		fmt.Sprintf("%d pin nodes, %d junctions, %d segments", stats.PinNodes, stats.JunctionNodes, stats.Segments), rasterGray)

	return img, nil
}

// WriteDebugPNG renders the graph and writes it to path.
func WriteDebugPNG(g *netgraph.Graph, path string, opts RasterOptions) error {
	img, err := DebugImage(g, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func rasterFace(dpi float64) (font.Face, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse builtin font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    8,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return face, nil
}

func drawText(img *image.RGBA, face font.Face, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// fillTriangle draws an arrowhead at (x, y) pointing along angle.
func fillTriangle(img *image.RGBA, x, y int, angle, size float64, c color.Color) {
	tip := [2]float64{float64(x), float64(y)}
	left := [2]float64{
		float64(x) - size*math.Cos(angle-0.4),
		float64(y) - size*math.Sin(angle-0.4),
	}
	right := [2]float64{
		float64(x) - size*math.Cos(angle+0.4),
		float64(y) - size*math.Sin(angle+0.4),
	}

	minX := int(math.Floor(math.Min(tip[0], math.Min(left[0], right[0]))))
	maxX := int(math.Ceil(math.Max(tip[0], math.Max(left[0], right[0]))))
	minY := int(math.Floor(math.Min(tip[1], math.Min(left[1], right[1]))))
	maxY := int(math.Ceil(math.Max(tip[1], math.Max(left[1], right[1]))))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			p := [2]float64{float64(px), float64(py)}
			d1 := cross(p, tip, left)
			d2 := cross(p, left, right)
			d3 := cross(p, right, tip)
			hasNeg := d1 < 0 || d2 < 0 || d3 < 0
			hasPos := d1 > 0 || d2 > 0 || d3 > 0
			if !(hasNeg && hasPos) {
				img.Set(px, py, c)
			}
		}
	}
}

func cross(p, a, b [2]float64) float64 {
	return (p[0]-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(p[1]-b[1])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
