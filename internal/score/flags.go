package score

import (
	"time"

	"predscan/internal/model"
)

// Flag thresholds.
const (
	// AdverseEventThreshold is the adverse-event count above which
	// HIGH_ADVERSE_EVENTS is raised.
	AdverseEventThreshold = 50

	// OldYears is the decision-date age, in years, beyond which OLD is raised.
	OldYears = 10
)

// FlagEngine derives risk flags from registry metadata and the exclusion
// list. Every trigger condition is independent; flags never suppress
// each other.
type FlagEngine struct {
	now func() time.Time
}

// NewFlagEngine creates a new flag engine.
func NewFlagEngine() *FlagEngine {
	return &FlagEngine{now: time.Now}
}

// Evaluate returns the full flag set for one candidate. excludedReason is
// non-empty when the identifier appears on the caller-supplied exclusion
// list. A nil record yields only the exclusion flag, if any.
func (e *FlagEngine) Evaluate(record *model.DeviceRecord, subject Subject, excludedReason string) model.FlagSet {
	flags := model.NewFlagSet()

	if excludedReason != "" {
		flags.Add(model.FlagExcluded)
	}

	if record == nil {
		return flags
	}

	if record.RecallCount != nil && *record.RecallCount > 0 {
		flags.Add(model.FlagRecalled)
	}
	if record.ClassIRecallCount > 0 {
		flags.Add(model.FlagRecalledClassI)
	}
	if record.OlderThan(e.now(), OldYears) {
		flags.Add(model.FlagOld)
	}
	if record.AdverseEventCount != nil && *record.AdverseEventCount > AdverseEventThreshold {
		flags.Add(model.FlagHighAdverseEvents)
	}
	if record.DeathEventCount != nil && *record.DeathEventCount > 0 {
		flags.Add(model.FlagDeathEvents)
	}
	if record.IsConditionalDecision() {
		flags.Add(model.FlagConditionalDecision)
	}
	if record.ProductCode != "" && subject.ProductCode != "" && record.ProductCode != subject.ProductCode {
		flags.Add(model.FlagProductTypeMismatch)
	}

	return flags
}
