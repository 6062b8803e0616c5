package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/ontograph/render"
	"github.com/TFMV/ontograph/view"
)

var extensions = map[string]string{
	"svg":   ".svg",
	"ascii": ".txt",
	"json":  ".json",
	"dot":   ".dot",
}

func renderCmd() *cobra.Command {
	var (
		graphFile  string
		format     string
		outputFile string
		maxTicks   int
		workOrders bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a graph and write one frame",
		Long: "Lay out a graph until it settles (or --ticks run out) and write the frame.\n" +
			"Formats: " + strings.Join(render.Formats(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Render.Format
			}
			if _, err := render.GetRenderer(format); err != nil {
				return err
			}

			g, err := loadGraph(graphFile, workOrders)
			if err != nil {
				return err
			}

			session := view.NewSession(cfg.Session(format))
			defer session.Close()
			if err := session.Load(g); err != nil {
				return err
			}

			ticks, err := session.Settle(maxTicks)
			if err != nil {
				return err
			}
			stats, err := session.Stats()
			if err != nil {
				return err
			}
			if !stats.Settled {
				log.Printf("Warning: layout did not settle in %d ticks", ticks)
			}

			out, err := session.Frame(format)
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}

			if outputFile == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if outputFile == "" {
				outputFile = "output" + extensions[format]
			}
			if err := os.WriteFile(outputFile, out, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", good.Sprint("wrote"), outputFile,
				subtle.Sprintf("(%d nodes, %d edges, %d ticks)", stats.Nodes, stats.Edges, ticks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&graphFile, "graph", "g", "", "Graph file (JSON graph, CSV, XLSX or text)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (defaults to the configured format)")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file, - for stdout (defaults to output.[format])")
	cmd.Flags().IntVar(&maxTicks, "ticks", 1000, "Maximum layout ticks")
	cmd.Flags().BoolVar(&workOrders, "work-orders", false, "Extract work orders as nodes")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}
