// Package cmd is the ontograph command line.
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/ontograph/config"
	"github.com/TFMV/ontograph/ingest"
	"github.com/TFMV/ontograph/models"
)

var version = "0.3.0"

var (
	configFile string
	debugMode  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ontograph",
	Short: "ontograph: knowledge graphs from work-order sheets",
	Long: brand.Sprint("ontograph") + " extracts knowledge graphs from maintenance sheets, lays them out\n" +
		subtle.Sprint("and renders, serves or exports them"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if debugMode {
			loaded.Debug = true
		}
		cfg = loaded

		if cfg.Debug {
			log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
			log.Println("Debug mode enabled")
		} else {
			log.SetFlags(log.LstdFlags)
		}
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate("ontograph {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a TOML or YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		tuiCmd(),
		extractCmd(),
		exportCmd(),
		versionCmd(),
	)
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, bad.Sprint("ontograph: ")+err.Error())
		return err
	}
	return nil
}

// loadGraph reads a graph file: a JSON graph payload, or a sheet or text
// file run through extraction
func loadGraph(path string, workOrders bool) (*models.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return ingest.DecodeGraph(data)
	}

	ontology, err := extractFile(path, data, workOrders)
	if err != nil {
		return nil, err
	}
	return ontology.BuildGraph(), nil
}

func extractFile(path string, data []byte, workOrders bool) (*models.Ontology, error) {
	var opts []ingest.Option
	if workOrders {
		opts = append(opts, ingest.WithWorkOrders())
	}
	processor, err := ingest.ProcessorFor(path, opts...)
	if err != nil {
		return nil, err
	}
	ontology, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process data: %w", err)
	}
	if cfg != nil && cfg.Debug {
		log.Printf("%s extracted %d entities, %d relationships", processor.GetName(),
			len(ontology.Entities), len(ontology.Relationships))
	}
	return ontology, nil
}
