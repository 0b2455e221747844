package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"predscan/internal/pipeline"
)

var lineageDepth int

// lineageCmd represents the lineage command
var lineageCmd = &cobra.Command{
	Use:   "lineage <identifier>",
	Short: "Trace the predicate chain for a submission",
	Long: `Lineage follows predicate citations generation by generation and
reports chain health: recalled ancestors, excessive depth, and scope
divergence reduce the score.

Example:
  predscan lineage K241234
  predscan lineage K241234 --depth 4`,
	Args: cobra.ExactArgs(1),
	RunE: runLineage,
}

func init() {
	rootCmd.AddCommand(lineageCmd)

	lineageCmd.Flags().StringVar(&corpusDir, "corpus", "", "corpus directory of <IDENTIFIER>.txt/.html files")
	lineageCmd.Flags().IntVar(&lineageDepth, "depth", 0, "maximum generations to follow")
	lineageCmd.Flags().StringVar(&registryURL, "registry-url", "", "device registry base URL (empty disables recall checks)")
	lineageCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runLineage(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	if cmd.Flags().Changed("registry-url") {
		cfg.Registry.BaseURL = registryURL
	}
	if noColor {
		cfg.Output.Color = false
	}

	p, err := pipeline.NewPipeline(cfg, nil, defaultStorePath())
	if err != nil {
		return err
	}

	chain, err := p.TraceLineage(ctx, args[0], lineageDepth)
	if err != nil {
		return fmt.Errorf("lineage failed: %w", err)
	}

	p.Render().RenderLineage(chain)
	return nil
}
