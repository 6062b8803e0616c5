package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	var (
		file       string
		asGraph    bool
		workOrders bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the ontology of a sheet or text file",
		Long: "Extract entities, relationships and attributes from a CSV, XLSX or text file\n" +
			"and print them as JSON. With --graph the built graph is printed instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			ontology, err := extractFile(file, data, workOrders)
			if err != nil {
				return err
			}

			var out any = ontology
			if asGraph {
				out = ontology.BuildGraph()
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV, XLSX or text file")
	cmd.Flags().BoolVar(&asGraph, "graph", false, "Print the built graph instead of the ontology")
	cmd.Flags().BoolVar(&workOrders, "work-orders", false, "Extract work orders as entities")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
