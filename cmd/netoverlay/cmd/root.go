package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "netoverlay",
	Short: "Net-path overlays for KiCad schematics",
	Long: `netoverlay extracts the wire connectivity graph from a KiCad schematic
and draws requested connections as a styled overlay layer on top of an
externally rendered SVG of the same sheet.

Examples:
  netoverlay graph harness.kicad_sch --out graph.json     # Extract the graph
  netoverlay graph harness.kicad_sch --png graph.png      # Raster debug view
  netoverlay overlay harness.kicad_sch \
      --connections runs.yaml --base-svg harness.svg \
      --composite harness-annotated.svg                   # Draw overlays`,
	Version: "0.9.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
