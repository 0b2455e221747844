package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"predscan/internal/extract"
	"predscan/internal/model"
	"predscan/internal/pipeline"
)

var (
	batchOutputDir string
	batchTimeout   time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Review multiple subject submissions from a file",
	Long: `Batch reviews every subject identifier listed in a file (one per
line, # comments allowed). Batch runs are always full-auto; a report is
written per subject into the output directory.

Example:
  predscan batch subjects.txt --corpus ./corpus
  predscan batch subjects.txt --output-dir ./reports --threshold 80`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&corpusDir, "corpus", "", "corpus directory of <IDENTIFIER>.txt/.html files")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./predscan-reports", "output directory for per-subject reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().IntVar(&autoThreshold, "threshold", 0, "full-auto acceptance threshold (1-100)")
	batchCmd.Flags().StringVar(&exclusionFile, "exclusions", "", "exclusion list file")
	batchCmd.Flags().StringVar(&storePath, "store", "", "decision store path (default: ~/.predscan/decisions.json)")
	batchCmd.Flags().StringVar(&registryURL, "registry-url", "", "device registry base URL (empty disables lookups)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable registry record caching")
	batchCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	subjects, err := readSubjects(args[0])
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		return fmt.Errorf("no subject identifiers in %s", args[0])
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	applyReviewFlags(cmd, cfg)
	// Batch never suspends for input
	cfg.Review.Mode = model.ModeAuto

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := storePath
	if path == "" {
		path = defaultStorePath()
	}

	p, err := pipeline.NewPipeline(cfg, nil, path)
	if err != nil {
		return err
	}

	var failed int
	for _, subject := range subjects {
		report, err := p.Run(ctx, subject)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", subject, err)
			continue
		}

		jsonPath := filepath.Join(batchOutputDir, subject+".json")
		if err := p.Render().RenderJSON(report, jsonPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", subject, err)
			continue
		}

		accepted := 0
		for _, d := range report.Decisions {
			if d.Outcome == model.OutcomeAccepted {
				accepted++
			}
		}
		fmt.Printf("✓ %s: %d candidates, %d accepted -> %s\n", subject, len(report.Candidates), accepted, jsonPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d subjects failed", failed, len(subjects))
	}
	return nil
}

// readSubjects reads identifiers from a file, one per line, deduplicated
func readSubjects(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subjects file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var subjects []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id := extract.Normalize(line)
		if !extract.ValidIdentifier(id) {
			return nil, fmt.Errorf("subjects file: %q is not a device identifier", line)
		}
		if !seen[id] {
			seen[id] = true
			subjects = append(subjects, id)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read subjects file: %w", err)
	}

	return subjects, nil
}
