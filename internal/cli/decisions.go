package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"predscan/internal/review"
)

// decisionsCmd represents the decisions command
var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "List stored review decisions",
	Long: `Decisions lists every finalized decision in the store, sorted by
identifier. Terminal decisions survive across runs until re-review is
requested.

Example:
  predscan decisions
  predscan decisions --store ./decisions.json`,
	RunE: runDecisions,
}

func init() {
	rootCmd.AddCommand(decisionsCmd)

	decisionsCmd.Flags().StringVar(&storePath, "store", "", "decision store path (default: ~/.predscan/decisions.json)")
}

func runDecisions(cmd *cobra.Command, args []string) error {
	path := storePath
	if path == "" {
		path = defaultStorePath()
	}

	store, err := review.NewStore(path)
	if err != nil {
		return fmt.Errorf("open decision store: %w", err)
	}

	decisions := store.All()
	if len(decisions) == 0 {
		fmt.Println("No stored decisions.")
		return nil
	}

	for _, d := range decisions {
		origin := "manual"
		if d.Auto {
			origin = "auto"
		}
		fmt.Printf("%s  %3d/100  %-20s %-6s %s\n",
			d.Identifier, d.Score.Total, d.Outcome, origin, d.DecidedAt.Format("2006-01-02"))
	}
	return nil
}
