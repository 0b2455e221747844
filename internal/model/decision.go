package model

import "time"

// Outcome is the terminal state of a candidate review
type Outcome string

const (
	OutcomePending           Outcome = "pending"
	OutcomeAccepted          Outcome = "accepted"
	OutcomeRejectedReference Outcome = "rejected_reference"
	OutcomeRejectedNoise     Outcome = "rejected_noise"
	OutcomeDeferred          Outcome = "deferred"
)

// Terminal reports whether the outcome ends the review of a candidate.
// Only interactive mode may leave a candidate pending across sessions.
func (o Outcome) Terminal() bool {
	return o != OutcomePending && o != ""
}

// Reclassification is the resolved citation role after reconciling the
// original label against zone evidence.
type Reclassification string

const (
	ReclassPredicate Reclassification = "predicate"
	ReclassReference Reclassification = "reference"
	ReclassUncertain Reclassification = "uncertain"
)

// ReviewMode selects how outcomes are produced
type ReviewMode string

const (
	ModeInteractive ReviewMode = "interactive"
	ModeThreshold   ReviewMode = "threshold" // Auto at the extremes, interactive in between
	ModeAuto        ReviewMode = "auto"      // Never suspends for input
)

// DefaultAutoThreshold is the full-auto acceptance cutoff when the caller
// does not supply one.
const DefaultAutoThreshold = 70

// Decision is the finalized review record for one candidate identifier.
// Once terminal it is loaded, not recomputed, unless re-review is requested.
type Decision struct {
	Identifier     string           `json:"identifier"`
	Outcome        Outcome          `json:"outcome"`
	Score          ScoreBreakdown   `json:"score"`
	Flags          []Flag           `json:"flags,omitempty"`
	ReclassifiedAs Reclassification `json:"reclassified_as"`
	Rationale      string           `json:"rationale,omitempty"`
	Auto           bool             `json:"auto"`
	DecidedAt      time.Time        `json:"decided_at"`
}
