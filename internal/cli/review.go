package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"predscan/internal/model"
	"predscan/internal/pipeline"
	"predscan/internal/review"
)

var (
	corpusDir     string
	reviewMode    string
	autoThreshold int
	exclusionFile string
	reReview      bool
	storePath     string

	outJSON string
	outMD   string
	outCSV  string

	registryURL   string
	reviewTimeout time.Duration
	noCache       bool
	noFooter      bool
	noColor       bool

	draftProvider string
	draftModel    string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <identifier>",
	Short: "Review predicate candidates for a subject submission",
	Long: `Review runs the full analysis for one subject submission:
- Load the local document corpus
- Extract device citations and classify them by equivalence zone
- Aggregate the weighted citation graph
- Enrich candidates with registry records
- Score, flag, and reclassify each candidate
- Decide outcomes under the configured review mode

Example:
  predscan review K241234 --corpus ./corpus
  predscan review K241234 --mode interactive
  predscan review K241234 --mode auto --threshold 80 --json report.json
  predscan review K241234 --draft openai --draft-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVar(&corpusDir, "corpus", "", "corpus directory of <IDENTIFIER>.txt/.html files")
	reviewCmd.Flags().StringVar(&reviewMode, "mode", "", "review mode (interactive, threshold, auto)")
	reviewCmd.Flags().IntVar(&autoThreshold, "threshold", 0, "full-auto acceptance threshold (1-100)")
	reviewCmd.Flags().StringVar(&exclusionFile, "exclusions", "", "exclusion list file")
	reviewCmd.Flags().BoolVar(&reReview, "re-review", false, "re-decide candidates with stored terminal decisions")
	reviewCmd.Flags().StringVar(&storePath, "store", "", "decision store path (default: ~/.predscan/decisions.json)")

	reviewCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path")
	reviewCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path")
	reviewCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV report path")

	reviewCmd.Flags().StringVar(&registryURL, "registry-url", "", "device registry base URL (empty disables lookups)")
	reviewCmd.Flags().DurationVar(&reviewTimeout, "timeout", 10*time.Minute, "overall run timeout")
	reviewCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable registry record caching")
	reviewCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	reviewCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	reviewCmd.Flags().StringVar(&draftProvider, "draft", "", "draft memo provider (openai, anthropic, ollama)")
	reviewCmd.Flags().StringVar(&draftModel, "draft-model", "", "draft memo model name")
}

func runReview(cmd *cobra.Command, args []string) error {
	subject := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), reviewTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	applyReviewFlags(cmd, cfg)

	if err := configureDraft(cfg); err != nil {
		return err
	}

	path := storePath
	if path == "" {
		path = defaultStorePath()
	}

	var actor review.Actor
	if cfg.Review.Mode == model.ModeInteractive || cfg.Review.Mode == model.ModeThreshold {
		actor = promptActor(os.Stdin, os.Stdout)
	}

	p, err := pipeline.NewPipeline(cfg, actor, path)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Reviewing: %s\n", subject)
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", cfg.Corpus.Dir)
		fmt.Fprintf(os.Stderr, "Mode: %s (threshold %d)\n\n", cfg.Review.Mode, cfg.Review.AutoThreshold)
	}

	report, err := p.Run(ctx, subject)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	if outJSON != "" {
		if err := p.Render().RenderJSON(report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := p.Render().RenderMarkdown(report, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}
	if outCSV != "" {
		if err := p.Render().RenderCSV(report, outCSV); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote CSV: %s\n", outCSV)
		}
	}

	p.Render().RenderSummary(report)
	return nil
}

// applyReviewFlags overrides configuration with explicitly set flags
func applyReviewFlags(cmd *cobra.Command, cfg *model.Config) {
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}
	if reviewMode != "" {
		cfg.Review.Mode = model.ReviewMode(reviewMode)
	}
	if autoThreshold > 0 {
		cfg.Review.AutoThreshold = autoThreshold
	}
	if exclusionFile != "" {
		cfg.Review.ExclusionFile = exclusionFile
	}
	if reReview {
		cfg.Review.ReReview = true
	}
	if cmd.Flags().Changed("registry-url") {
		cfg.Registry.BaseURL = registryURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if noColor {
		cfg.Output.Color = false
	}
	cfg.Output.Verbose = verbose || cfg.Output.Verbose
}

// configureDraft wires the optional memo provider from flags and env
func configureDraft(cfg *model.Config) error {
	if draftProvider != "" {
		cfg.Draft.Provider = draftProvider
	}
	if draftModel != "" {
		cfg.Draft.Model = draftModel
	}
	if cfg.Draft.Provider == "" {
		return nil
	}

	switch cfg.Draft.Provider {
	case "openai":
		cfg.Draft.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Draft.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Draft.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.Draft.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Draft.BaseURL = baseURL
		}
	}
	return nil
}

// promptActor builds an interactive actor on the given streams. Unrecognized
// input leaves a candidate pending, never silently decides.
func promptActor(in io.Reader, out io.Writer) review.Actor {
	reader := bufio.NewReader(in)

	return func(item review.Item) (model.Outcome, string) {
		fmt.Fprintf(out, "\n%s  score %d/100", item.Identifier, item.Score.Total)
		if len(item.Flags) > 0 {
			parts := make([]string, len(item.Flags))
			for i, f := range item.Flags {
				parts[i] = string(f)
			}
			fmt.Fprintf(out, "  [%s]", strings.Join(parts, " "))
		}
		fmt.Fprintf(out, "  role: %s\n", item.ReclassifiedAs)
		for _, snippet := range item.Snippets {
			fmt.Fprintf(out, "    ...%s...\n", snippet)
		}
		fmt.Fprint(out, "  [a]ccept / [r]eference / [n]oise / [d]efer / [s]kip: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return model.OutcomePending, ""
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "accept":
			return model.OutcomeAccepted, "accepted by reviewer"
		case "r", "reference":
			return model.OutcomeRejectedReference, "rejected as reference by reviewer"
		case "n", "noise":
			return model.OutcomeRejectedNoise, "rejected as noise by reviewer"
		case "d", "defer":
			return model.OutcomeDeferred, "deferred by reviewer"
		default:
			return model.OutcomePending, ""
		}
	}
}
