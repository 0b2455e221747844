package model

import "sort"

// Component maximums for the confidence score breakdown.
// Total is always the unweighted sum, bounded 0-100.
const (
	MaxZoneContext         = 40
	MaxCitationFrequency   = 20
	MaxClassificationMatch = 15
	MaxRecency             = 15
	MaxRegulatoryHistory   = 10
)

// ScoreBreakdown is the transparent five-component confidence score
// for one candidate predicate against the subject.
type ScoreBreakdown struct {
	ZoneContext         int `json:"zone_context"`
	CitationFrequency   int `json:"citation_frequency"`
	ClassificationMatch int `json:"classification_match"`
	Recency             int `json:"recency"`
	RegulatoryHistory   int `json:"regulatory_history"`
	Total               int `json:"total"`
}

// Sum recomputes Total from the five components.
func (s *ScoreBreakdown) Sum() int {
	s.Total = s.ZoneContext + s.CitationFrequency + s.ClassificationMatch +
		s.Recency + s.RegulatoryHistory
	return s.Total
}

// Flag is a categorical risk marker attached to a decision
type Flag string

const (
	FlagRecalled            Flag = "RECALLED"
	FlagRecalledClassI      Flag = "RECALLED_CLASS_I"
	FlagOld                 Flag = "OLD"
	FlagHighAdverseEvents   Flag = "HIGH_ADVERSE_EVENTS"
	FlagDeathEvents         Flag = "DEATH_EVENTS"
	FlagExcluded            Flag = "EXCLUDED"
	FlagConditionalDecision Flag = "CONDITIONAL_DECISION"
	FlagProductTypeMismatch Flag = "PRODUCT_TYPE_MISMATCH"
)

// FlagSet is an unordered, duplicate-free collection of flags
type FlagSet map[Flag]struct{}

// NewFlagSet creates a flag set from the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	set := make(FlagSet, len(flags))
	for _, f := range flags {
		set.Add(f)
	}
	return set
}

// Add inserts a flag into the set.
func (s FlagSet) Add(f Flag) {
	s[f] = struct{}{}
}

// Has reports whether the flag is present.
func (s FlagSet) Has(f Flag) bool {
	_, ok := s[f]
	return ok
}

// Sorted returns the flags in lexical order for stable output.
func (s FlagSet) Sorted() []Flag {
	flags := make([]Flag, 0, len(s))
	for f := range s {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })
	return flags
}
