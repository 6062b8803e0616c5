package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TFMV/ontograph/config"
	"github.com/TFMV/ontograph/export"
)

func exportCmd() *cobra.Command {
	var (
		graphFile  string
		dsn        string
		workOrders bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a graph to the export database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = cfg.Database.URL
			}
			if dsn == "" {
				return fmt.Errorf("%w: pass --dsn or set %s", export.ErrNotConfigured, config.EnvDatabaseURL)
			}

			g, err := loadGraph(graphFile, workOrders)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			exp, err := export.NewPostgresExporter(ctx, dsn)
			if err != nil {
				return err
			}
			defer exp.Close()

			res, err := exp.Export(ctx, g)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s graph %s %s\n", good.Sprint("exported"), g.ID,
				subtle.Sprintf("(%d nodes, %d edges)", res.Nodes, res.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&graphFile, "graph", "g", "", "Graph file (JSON graph, CSV, XLSX or text)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres URL (overrides the config)")
	cmd.Flags().BoolVar(&workOrders, "work-orders", false, "Extract work orders as nodes")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}
