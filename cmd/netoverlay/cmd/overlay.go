package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harnesslab/netoverlay/pkg/overlay"
	"github.com/harnesslab/netoverlay/pkg/schematic"
)

var (
	overlayConnections string
	overlayBaseSVG     string
	overlayOut         string
	overlayComposite   string
	overlayDebugMarks  bool
	overlayGroupID     string
)

var overlayCmd = &cobra.Command{
	Use:   "overlay <schematic_file>",
	Short: "Render connection overlays",
	Long: `Resolve each requested connection to its physical wire path through the
schematic and render the paths as a styled, labeled SVG layer.

The base SVG is an externally rendered image of the same schematic; its
frame (viewBox, width, height) anchors the overlay coordinates.

With --out: writes a standalone overlay document
With --composite: injects the overlay layer into a copy of the base SVG`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlay,
}

func init() {
	rootCmd.AddCommand(overlayCmd)
	overlayCmd.Flags().StringVar(&overlayConnections, "connections", "", "connection list file (JSON or YAML)")
	overlayCmd.Flags().StringVar(&overlayBaseSVG, "base-svg", "", "externally rendered schematic SVG")
	overlayCmd.Flags().StringVar(&overlayOut, "out", "", "write standalone overlay SVG to file")
	overlayCmd.Flags().StringVar(&overlayComposite, "composite", "", "write base SVG with overlay injected to file")
	overlayCmd.Flags().BoolVar(&overlayDebugMarks, "debug-marks", false, "draw bundle circles and points")
	overlayCmd.Flags().StringVar(&overlayGroupID, "group-id", "net-overlay", "id of the injected SVG group")
	overlayCmd.MarkFlagRequired("connections")
	overlayCmd.MarkFlagRequired("base-svg")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	filename := args[0]
	doc, err := schematic.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}

	conns, err := overlay.LoadConnections(overlayConnections)
	if err != nil {
		return err
	}

	frame, err := overlay.ExtractFrameFile(overlayBaseSVG)
	if err != nil {
		return err
	}

	opts := overlay.DefaultRenderOptions()
	opts.DebugMarks = overlayDebugMarks
	opts.GroupID = overlayGroupID

	res, err := overlay.BuildOverlay(doc, conns, frame, opts)
	if err != nil {
		return err
	}

	for _, d := range res.Report.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
	if verbose {
		for _, note := range res.Report.Notes {
			fmt.Fprintf(os.Stderr, "note: %s\n", note)
		}
	}

	stats := res.Graph.Stats()
	fmt.Printf("Schematic: %s\n", filename)
	fmt.Printf("Graph: %d pin nodes, %d junctions, %d segments\n",
		stats.PinNodes, stats.JunctionNodes, stats.Segments)
	fmt.Printf("Connections: %d requested, %d drawn, %d failed\n",
		len(conns), len(res.Chains), len(res.Report.ConnectionErrors))

	if overlayOut != "" {
		if err := os.WriteFile(overlayOut, []byte(res.SVG), 0644); err != nil {
			return fmt.Errorf("error writing overlay: %w", err)
		}
		fmt.Printf("Overlay written to %s\n", overlayOut)
	}

	if overlayComposite != "" {
		base, err := os.ReadFile(overlayBaseSVG)
		if err != nil {
			return fmt.Errorf("error reading base SVG: %w", err)
		}
		composited, err := overlay.Composite(string(base), frame, res.Group, overlayGroupID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(overlayComposite, []byte(composited), 0644); err != nil {
			return fmt.Errorf("error writing composite: %w", err)
		}
		fmt.Printf("Composite written to %s\n", overlayComposite)
	}

	for _, ce := range res.Report.ConnectionErrors {
		fmt.Fprintf(os.Stderr, "error: %v\n", ce)
	}
	return res.Report.Err()
}
