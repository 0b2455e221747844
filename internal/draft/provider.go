package draft

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"predscan/internal/extract"
	"predscan/internal/model"
)

// Provider drafts a predicate-review memo from a finished report. Drafting
// never feeds back into scoring or decisions; it only narrates them.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Draft generates a memo constrained to the report's identifiers
	Draft(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Request is the input for memo drafting
type Request struct {
	// Report is the finished analysis to narrate
	Report model.Report

	// AllowedIdentifiers is the strict allowlist of device identifiers the
	// memo may mention. Anything outside it is a grounding violation.
	AllowedIdentifiers []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response is the drafted memo
type Response struct {
	// MemoMD is the memo text in Markdown
	MemoMD string

	// CitedIdentifiers are the device identifiers the memo actually mentions
	CitedIdentifiers []string

	// Model is the model that generated the memo
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds drafting provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// StrictGrounding rejects memos that mention identifiers outside the
	// report
	StrictGrounding bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

const systemPrompt = "You draft predicate review memos from completed citation analyses. You only restate the analysis; you never add regulatory conclusions of your own."

// BuildPrompt constructs the default memo prompt. The identifier allowlist
// is embedded verbatim so the model sees exactly what it may cite.
func BuildPrompt(report model.Report, allowed []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are drafting an internal review memo for submission %s.

RULES:
1. You may ONLY mention device identifiers from this list:
%s

2. Do not mention, infer, or invent any other device or submission.
3. Describe citation evidence and risk flags; never assert that a device
   is safe, unsafe, equivalent, or approvable.
4. If a candidate has little evidence, say so explicitly.

Analysis results:
- Subject: %s
- Corpus documents: %d
- Candidate devices: %d
`, report.Subject, joinIdentifiers(allowed), report.Subject, report.CorpusDocuments, len(report.Candidates))

	for _, candidate := range report.Candidates {
		fmt.Fprintf(&b, "\n- %s: confidence %d/100", candidate.Identifier, candidate.Score.Sum())
		if len(candidate.Flags) > 0 {
			fmt.Fprintf(&b, ", flags %s", strings.Join(flagStrings(candidate.Flags), " "))
		}
		fmt.Fprintf(&b, ", classified as %s", candidate.ReclassifiedAs)
	}

	for _, decision := range report.Decisions {
		fmt.Fprintf(&b, "\n- decision for %s: %s (%s)", decision.Identifier, decision.Outcome, decision.Rationale)
	}

	b.WriteString("\n\nWrite a Markdown memo: one paragraph of overview, then one short paragraph per candidate.")

	return b.String()
}

func joinIdentifiers(allowed []string) string {
	if len(allowed) == 0 {
		return "(no identifiers available)"
	}
	sorted := make([]string, len(allowed))
	copy(sorted, allowed)
	sort.Strings(sorted)
	return "- " + strings.Join(sorted, "\n- ")
}

func flagStrings(flags []model.Flag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}

// citedIdentifiers finds every device identifier mentioned in the memo
func citedIdentifiers(memo string) []string {
	mentions := extract.FindIdentifiers(memo)

	seen := make(map[string]bool)
	var unique []string
	for _, m := range mentions {
		if !seen[m.Identifier] {
			seen[m.Identifier] = true
			unique = append(unique, m.Identifier)
		}
	}
	sort.Strings(unique)
	return unique
}

// checkGrounding rejects memos that cite identifiers outside the allowlist
func checkGrounding(cited, allowed []string) error {
	permitted := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		permitted[id] = true
	}
	for _, id := range cited {
		if !permitted[id] {
			return fmt.Errorf("grounding violation: memo cites %s, which is not in the analysis", id)
		}
	}
	return nil
}
