package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"predscan/internal/pipeline"
)

var graphJSON string

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build and print the corpus citation graph",
	Long: `Graph classifies every corpus document and prints the aggregated
citation graph: one edge per (source, target) pair with strong and weak
occurrence counts.

Example:
  predscan graph --corpus ./corpus
  predscan graph --corpus ./corpus --json graph.json`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVar(&corpusDir, "corpus", "", "corpus directory of <IDENTIFIER>.txt/.html files")
	graphCmd.Flags().StringVar(&graphJSON, "json", "", "write edges as JSON to this path")
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	// Registry access is never needed to build the graph
	cfg.Registry.BaseURL = ""

	p, err := pipeline.NewPipeline(cfg, nil, defaultStorePath())
	if err != nil {
		return err
	}

	aggregator, docs, err := p.Graph()
	if err != nil {
		return fmt.Errorf("graph failed: %w", err)
	}
	edges := aggregator.Edges()

	if graphJSON != "" {
		data, err := json.MarshalIndent(edges, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal edges: %w", err)
		}
		if err := os.WriteFile(graphJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write edges: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", graphJSON)
		}
	}

	p.Render().RenderEdges(edges, docs)
	return nil
}
