package review

import (
	"fmt"

	"predscan/internal/model"
)

// Threshold-auto mode cutoffs: scores at or above the accept line and below
// the noise line are decided automatically; the band between is routed to
// the actor.
const (
	ThresholdAcceptScore = 80
	ThresholdNoiseScore  = 20
)

// AutoDeferScore is the full-auto floor below which a candidate is rejected
// as a reference rather than deferred.
const AutoDeferScore = 40

// Item is one candidate presented for decision, with everything an actor
// needs to judge it.
type Item struct {
	Identifier     string
	Score          model.ScoreBreakdown
	Flags          []model.Flag
	ReclassifiedAs model.Reclassification
	Snippets       []string
}

// Actor supplies an outcome and optional rationale for one item. Injected
// for interactive mode; tests and the CLI provide implementations.
type Actor func(Item) (model.Outcome, string)

// Policy maps scores to outcomes under one of the three review modes.
type Policy struct {
	mode      model.ReviewMode
	threshold int
	actor     Actor
}

// NewPolicy creates a decision policy. A non-positive threshold falls back
// to the default; the actor may be nil for non-interactive use.
func NewPolicy(mode model.ReviewMode, threshold int, actor Actor) *Policy {
	if threshold <= 0 {
		threshold = model.DefaultAutoThreshold
	}
	return &Policy{mode: mode, threshold: threshold, actor: actor}
}

// Decide resolves one item to an outcome. Full-auto always produces a
// terminal outcome; interactive (and the middle band of threshold mode)
// returns pending when no actor is available.
func (p *Policy) Decide(item Item) (model.Outcome, string, bool) {
	switch p.mode {
	case model.ModeAuto:
		outcome, rationale := AutoOutcome(item.Score.Total, p.threshold)
		return outcome, rationale, true

	case model.ModeThreshold:
		total := item.Score.Total
		if total >= ThresholdAcceptScore {
			return model.OutcomeAccepted,
				fmt.Sprintf("auto-accepted: score %d >= %d", total, ThresholdAcceptScore), true
		}
		if total < ThresholdNoiseScore {
			return model.OutcomeRejectedNoise,
				fmt.Sprintf("auto-rejected as noise: score %d < %d", total, ThresholdNoiseScore), true
		}
		return p.ask(item)

	default:
		return p.ask(item)
	}
}

// ask routes an item to the actor, or leaves it pending without one.
func (p *Policy) ask(item Item) (model.Outcome, string, bool) {
	if p.actor == nil {
		return model.OutcomePending, "", false
	}
	outcome, rationale := p.actor(item)
	if !outcome.Terminal() {
		return model.OutcomePending, rationale, false
	}
	return outcome, rationale, false
}

// AutoOutcome is the pure full-auto decision function. The three score
// bands are exhaustive and non-overlapping, so an outcome is always
// producible for any score and threshold.
func AutoOutcome(total, threshold int) (model.Outcome, string) {
	switch {
	case total >= threshold:
		return model.OutcomeAccepted,
			fmt.Sprintf("auto-accepted: score %d meets threshold %d", total, threshold)
	case total >= AutoDeferScore:
		return model.OutcomeDeferred,
			fmt.Sprintf("deferred for manual review: score %d below threshold %d", total, threshold)
	default:
		return model.OutcomeRejectedReference,
			fmt.Sprintf("rejected as reference: score %d below %d", total, AutoDeferScore)
	}
}
