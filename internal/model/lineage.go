package model

// LineageEntry is one record in a predicate chain
type LineageEntry struct {
	Identifier string `json:"identifier"`
	Generation int    `json:"generation"` // 0 = root
	CitedBy    string `json:"cited_by,omitempty"`
	Recalled   bool   `json:"recalled"`
}

// LineageIssueKind classifies a detected chain problem
type LineageIssueKind string

const (
	IssueRecalledAncestor LineageIssueKind = "recalled_ancestor"
	IssueExcessiveDepth   LineageIssueKind = "excessive_depth"
	IssueScopeDivergence  LineageIssueKind = "scope_divergence"
)

// LineageIssue is one detected problem in a chain, with the health
// deduction it caused.
type LineageIssue struct {
	Kind       LineageIssueKind `json:"kind"`
	Identifier string           `json:"identifier,omitempty"`
	Detail     string           `json:"detail,omitempty"`
	Penalty    int              `json:"penalty"`
}

// LineageChain is the multi-generation predicate ancestry of a root
// identifier, with a 0-100 health score.
type LineageChain struct {
	Root        string         `json:"root"`
	Entries     []LineageEntry `json:"entries"` // Ordered root-outward
	MaxDepth    int            `json:"max_depth"`
	HealthScore int            `json:"health_score"`
	Issues      []LineageIssue `json:"issues,omitempty"`
}
