package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"predscan/internal/model"
)

// Renderer writes reports to files and a human summary to stdout
type Renderer struct {
	includeFooter bool
	colorize      bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter, colorize bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, colorize: colorize}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Predicate review: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- Run: %s\n", report.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Mode: %s\n", report.Mode)
	fmt.Fprintf(&b, "- Corpus documents: %d\n\n", report.CorpusDocuments)

	if report.SubjectRecord != nil {
		fmt.Fprintf(&b, "Subject device: %s (%s, panel %s)\n\n",
			report.SubjectRecord.DeviceName, report.SubjectRecord.ProductCode, report.SubjectRecord.ReviewPanel)
	}

	b.WriteString("## Candidates\n\n")
	b.WriteString("| Identifier | Zone | Freq | Class | Recency | History | Total | Role | Flags |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, c := range report.Candidates {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | **%d** | %s | %s |\n",
			c.Identifier,
			c.Score.ZoneContext, c.Score.CitationFrequency, c.Score.ClassificationMatch,
			c.Score.Recency, c.Score.RegulatoryHistory, c.Score.Total,
			c.ReclassifiedAs, flagList(c.Flags))
	}

	b.WriteString("\n## Decisions\n\n")
	for _, d := range report.Decisions {
		origin := "manual"
		if d.Auto {
			origin = "auto"
		}
		fmt.Fprintf(&b, "- **%s**: %s (%s) %s\n", d.Identifier, d.Outcome, origin, d.Rationale)
	}

	if report.Lineage != nil {
		fmt.Fprintf(&b, "\n## Lineage\n\nHealth: %d/100\n\n", report.Lineage.HealthScore)
		for _, entry := range report.Lineage.Entries {
			fmt.Fprintf(&b, "- gen %d: %s (cited by %s)\n", entry.Generation, entry.Identifier, entry.CitedBy)
		}
		for _, issue := range report.Lineage.Issues {
			fmt.Fprintf(&b, "- issue: %s %s (-%d) %s\n", issue.Kind, issue.Identifier, issue.Penalty, issue.Detail)
		}
	}

	if report.Memo != nil && report.Memo.MemoMD != "" {
		fmt.Fprintf(&b, "\n## Draft memo (%s, %s)\n\n%s\n", report.Memo.Provider, report.Memo.Model, report.Memo.MemoMD)
	}

	if r.includeFooter {
		b.WriteString("\n---\nGenerated by predscan. Scores describe citation evidence, not device safety or equivalence.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

// RenderCSV writes one row per candidate for spreadsheet triage
func (r *Renderer) RenderCSV(report *model.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV report: %w", err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	header := []string{
		"identifier", "zone_context", "citation_frequency", "classification_match",
		"recency", "regulatory_history", "total", "reclassified_as", "flags", "outcome", "rationale",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	outcomes := make(map[string]model.Decision, len(report.Decisions))
	for _, d := range report.Decisions {
		outcomes[d.Identifier] = d
	}

	for _, c := range report.Candidates {
		decision := outcomes[c.Identifier]
		row := []string{
			c.Identifier,
			strconv.Itoa(c.Score.ZoneContext),
			strconv.Itoa(c.Score.CitationFrequency),
			strconv.Itoa(c.Score.ClassificationMatch),
			strconv.Itoa(c.Score.Recency),
			strconv.Itoa(c.Score.RegulatoryHistory),
			strconv.Itoa(c.Score.Total),
			string(c.ReclassifiedAs),
			flagList(c.Flags),
			string(decision.Outcome),
			decision.Rationale,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV report: %w", err)
	}
	return nil
}

// RenderSummary prints the run summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	green := r.sprint(color.FgGreen)
	yellow := r.sprint(color.FgYellow)
	red := r.sprint(color.FgRed)
	bold := r.sprint(color.Bold)

	fmt.Printf("\n%s %s\n", bold("Subject:"), report.Subject)
	fmt.Printf("Corpus: %d documents, %d citation edges\n\n", report.CorpusDocuments, len(report.Edges))

	for _, d := range report.Decisions {
		var outcome string
		switch d.Outcome {
		case model.OutcomeAccepted:
			outcome = green(string(d.Outcome))
		case model.OutcomeDeferred, model.OutcomePending:
			outcome = yellow(string(d.Outcome))
		default:
			outcome = red(string(d.Outcome))
		}
		fmt.Printf("  %s  %3d/100  %-20s %s\n", d.Identifier, d.Score.Total, outcome, flagList(d.Flags))
	}

	if report.Lineage != nil {
		health := green
		if report.Lineage.HealthScore < 70 {
			health = yellow
		}
		if report.Lineage.HealthScore < 40 {
			health = red
		}
		fmt.Printf("\nLineage health: %s\n", health(strconv.Itoa(report.Lineage.HealthScore)+"/100"))
	}

	if report.Memo != nil {
		for _, warning := range report.Memo.Warnings {
			fmt.Printf("%s %s\n", yellow("memo warning:"), warning)
		}
	}
}

// RenderLineage prints a chain to stdout
func (r *Renderer) RenderLineage(chain *model.LineageChain) {
	bold := r.sprint(color.Bold)
	red := r.sprint(color.FgRed)

	fmt.Printf("%s %s (max depth %d)\n", bold("Lineage for"), chain.Root, chain.MaxDepth)
	for _, entry := range chain.Entries {
		marker := ""
		if entry.Recalled {
			marker = red(" [recalled]")
		}
		fmt.Printf("  %s%s %s%s\n", strings.Repeat("  ", entry.Generation), entry.Identifier, citedBy(entry), marker)
	}
	fmt.Printf("Health: %d/100\n", chain.HealthScore)
	for _, issue := range chain.Issues {
		fmt.Printf("  - %s: %s (-%d)\n", issue.Kind, issue.Detail, issue.Penalty)
	}
}

// RenderEdges prints the citation graph to stdout
func (r *Renderer) RenderEdges(edges []model.CitationEdge, docCount int) {
	fmt.Printf("Citation graph: %d documents, %d edges\n\n", docCount, len(edges))
	for _, edge := range edges {
		fmt.Printf("  %s -> %s  strong=%d weak=%d\n", edge.SourceID, edge.Target, edge.StrongCount, edge.WeakCount)
	}
}

func (r *Renderer) sprint(attr color.Attribute) func(...interface{}) string {
	if !r.colorize {
		return fmt.Sprint
	}
	return color.New(attr).SprintFunc()
}

func citedBy(entry model.LineageEntry) string {
	if entry.CitedBy == "" {
		return "(root)"
	}
	return "cited by " + entry.CitedBy
}

func flagList(flags []model.Flag) string {
	if len(flags) == 0 {
		return ""
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, " ")
}
