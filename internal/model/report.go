package model

import "time"

// Candidate is the fully evaluated profile of one cited identifier
type Candidate struct {
	Identifier     string           `json:"identifier"`
	Citations      *CitationSummary `json:"citations,omitempty"`
	Record         *DeviceRecord    `json:"record,omitempty"`
	Score          ScoreBreakdown   `json:"score"`
	Flags          []Flag           `json:"flags,omitempty"`
	ReclassifiedAs Reclassification `json:"reclassified_as"`
	Snippets       []string         `json:"snippets,omitempty"` // Occurrence context for review
}

// Report is the complete result of one review run, keyed by run ID and
// intended to be append-only across runs.
type Report struct {
	RunID       string     `json:"run_id"`
	Subject     string     `json:"subject"`
	GeneratedAt time.Time  `json:"generated_at"`
	Mode        ReviewMode `json:"mode"`

	SubjectRecord *DeviceRecord `json:"subject_record,omitempty"`

	CorpusDocuments int            `json:"corpus_documents"`
	Edges           []CitationEdge `json:"edges,omitempty"`

	Candidates []Candidate `json:"candidates"`
	Decisions  []Decision  `json:"decisions"`

	Lineage *LineageChain `json:"lineage,omitempty"`

	Memo *DraftMemo `json:"memo,omitempty"` // Optional, never affects scoring
}

// DraftMemo is an optional LLM-drafted narrative review memo.
// It is generated after scoring and can never influence it.
type DraftMemo struct {
	Enabled          bool     `json:"enabled"`
	Provider         string   `json:"provider,omitempty"`
	Model            string   `json:"model,omitempty"`
	StrictGrounding  bool     `json:"strict_grounding"`
	MemoMD           string   `json:"memo_md,omitempty"`
	Warnings         []string `json:"warnings,omitempty"` // e.g. ungrounded identifiers detected
	CitedIdentifiers []string `json:"cited_identifiers,omitempty"`
}
