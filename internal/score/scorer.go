package score

import (
	"time"

	"predscan/internal/model"
)

// Subject describes the device under review, for comparison against
// candidate records.
type Subject struct {
	Identifier  string
	ProductCode string
	ReviewPanel string
}

// Scorer computes the five-component confidence breakdown for a candidate
// predicate. Pure per-candidate; missing registry or corpus data degrades to
// documented defaults, it never errors.
type Scorer struct {
	now func() time.Time // Injectable for tests
}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Calculate combines citation-graph signals with registry metadata into a
// 0-100 score. A nil citations summary means no document text was available
// for this run; a nil record means the registry lookup found nothing.
func (s *Scorer) Calculate(citations *model.CitationSummary, record *model.DeviceRecord, subject Subject) model.ScoreBreakdown {
	breakdown := model.ScoreBreakdown{
		ZoneContext:         s.zoneContext(citations),
		CitationFrequency:   s.citationFrequency(citations),
		ClassificationMatch: s.classificationMatch(record, subject),
		Recency:             s.recency(record),
		RegulatoryHistory:   s.regulatoryHistory(record),
	}
	breakdown.Sum()
	return breakdown
}

// zoneContext scores where in the corpus the candidate is cited (0-40).
// Any strong-zone occurrence from any source is sufficient for the full
// tier; without zone data the conservative middle default applies.
func (s *Scorer) zoneContext(citations *model.CitationSummary) int {
	switch {
	case citations == nil:
		return 10
	case citations.StrongSources > 0:
		return model.MaxZoneContext
	case citations.WeakOnlySources > 0:
		return 10
	default:
		return 0
	}
}

// citationFrequency buckets the weighted citation score (0-20).
func (s *Scorer) citationFrequency(citations *model.CitationSummary) int {
	if citations == nil {
		return 0
	}
	switch w := citations.Weighted; {
	case w >= 5:
		return model.MaxCitationFrequency
	case w >= 3:
		return 15
	case w == 2:
		return 10
	case w == 1:
		return 5
	default:
		return 0
	}
}

// classificationMatch compares the candidate's classification against the
// subject's (0-15). Unknown classification scores the neutral 8.
func (s *Scorer) classificationMatch(record *model.DeviceRecord, subject Subject) int {
	if record == nil || record.ProductCode == "" {
		return 8
	}
	if record.ProductCode == subject.ProductCode {
		return model.MaxClassificationMatch
	}
	if record.ReviewPanel != "" && record.ReviewPanel == subject.ReviewPanel {
		return 8
	}
	return 0
}

// recency scores decision-date age (0-15). Unknown dates score 5.
func (s *Scorer) recency(record *model.DeviceRecord) int {
	age := record.AgeYears(s.now())
	switch {
	case age < 0:
		return 5
	case age < 5:
		return model.MaxRecency
	case age < 10:
		return 10
	case age < 15:
		return 5
	default:
		return 2
	}
}

// regulatoryHistory scores recall and adverse-event signal (0-10).
// Major signal (Class I recall or deaths) zeroes it; absent data scores 5.
func (s *Scorer) regulatoryHistory(record *model.DeviceRecord) int {
	if record == nil || !record.HasRegulatoryData() {
		return 5
	}
	if record.ClassIRecallCount > 0 {
		return 0
	}
	if record.DeathEventCount != nil && *record.DeathEventCount > 0 {
		return 0
	}
	if record.RecallCount != nil && *record.RecallCount > 0 {
		return 5
	}
	if record.IsConditionalDecision() {
		return 5
	}
	return model.MaxRegulatoryHistory
}
