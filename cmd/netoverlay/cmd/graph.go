package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harnesslab/netoverlay/pkg/overlay"
	"github.com/harnesslab/netoverlay/pkg/schematic"
)

var (
	graphOut string
	graphPNG string
	graphDPI float64
)

var graphCmd = &cobra.Command{
	Use:   "graph <schematic_file>",
	Short: "Extract the connectivity graph",
	Long: `Parse a KiCad schematic, compile absolute pin locations, and build the
canonical node/segment connectivity graph.

Without flags: prints a summary
With --out: also writes the graph as JSON
With --png: also writes a raster debug view of the graph`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphOut, "out", "", "write graph JSON to file")
	graphCmd.Flags().StringVar(&graphPNG, "png", "", "write raster debug view to file")
	graphCmd.Flags().Float64Var(&graphDPI, "dpi", 300, "raster debug view density")
}

func runGraph(cmd *cobra.Command, args []string) error {
	filename := args[0]
	doc, err := schematic.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}

	g, wires, diags := overlay.BuildGraph(doc)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}

	stats := g.Stats()
	fmt.Printf("Schematic: %s\n", filename)
	fmt.Printf("Symbols: %d\n", len(doc.Symbols))
	fmt.Printf("Placements: %d\n", len(doc.Placements))
	fmt.Printf("Wire segments: %d\n", len(wires))
	fmt.Println()
	fmt.Println("Graph:")
	fmt.Printf("  Pin nodes: %d\n", stats.PinNodes)
	fmt.Printf("  Junction nodes: %d\n", stats.JunctionNodes)
	fmt.Printf("  Segments: %d\n", stats.Segments)

	if graphOut != "" {
		data, err := g.MarshalIndent()
		if err != nil {
			return fmt.Errorf("error encoding graph: %w", err)
		}
		if err := os.WriteFile(graphOut, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("error writing graph: %w", err)
		}
		fmt.Printf("\nGraph written to %s\n", graphOut)
	}

	if graphPNG != "" {
		opts := overlay.DefaultRasterOptions()
		opts.DPI = graphDPI
		if err := overlay.WriteDebugPNG(g, graphPNG, opts); err != nil {
			return fmt.Errorf("error writing debug view: %w", err)
		}
		fmt.Printf("Debug view written to %s\n", graphPNG)
	}

	return nil
}
