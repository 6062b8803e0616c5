package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TFMV/ontograph/tui"
	"github.com/TFMV/ontograph/view"
)

func tuiCmd() *cobra.Command {
	var (
		graphFile  string
		workOrders bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore a graph interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(graphFile, workOrders)
			if err != nil {
				return err
			}

			session := view.NewSession(cfg.Session("ascii"))
			defer session.Close()
			if err := session.Load(g); err != nil {
				return err
			}

			title := cfg.Render.Title
			if title == "" {
				title = filepath.Base(graphFile)
			}
			return tui.Run(tui.New(session, title, cfg.Render.FrameInterval))
		},
	}

	cmd.Flags().StringVarP(&graphFile, "graph", "g", "", "Graph file (JSON graph, CSV, XLSX or text)")
	cmd.Flags().BoolVar(&workOrders, "work-orders", false, "Extract work orders as nodes")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}
