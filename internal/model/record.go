package model

import "time"

// OriginalLabel is the citation role a record was given in its source
// document, before reclassification against zone evidence.
type OriginalLabel string

const (
	LabelPredicate OriginalLabel = "predicate"
	LabelReference OriginalLabel = "reference"
	LabelUnknown   OriginalLabel = "unknown"
)

// DeviceRecord holds registry metadata for one regulatory record.
// Read-only; populated by the registry client. Count fields are pointers
// because the registry may not report them at all - absent data degrades
// scoring to documented defaults, it never fails the pipeline.
type DeviceRecord struct {
	Identifier  string `json:"identifier"`
	DeviceName  string `json:"device_name,omitempty"`
	Applicant   string `json:"applicant,omitempty"`
	ProductCode string `json:"product_code,omitempty"` // Classification code
	ReviewPanel string `json:"review_panel,omitempty"` // Medical specialty panel

	DecisionCode string     `json:"decision_code,omitempty"` // e.g. SESE, SESU, SESP
	DecisionDate *time.Time `json:"decision_date,omitempty"`

	RecallCount       *int `json:"recall_count,omitempty"`
	ClassIRecallCount int  `json:"class_i_recall_count,omitempty"`
	AdverseEventCount *int `json:"adverse_event_count,omitempty"`
	DeathEventCount   *int `json:"death_event_count,omitempty"`

	OriginalLabel OriginalLabel `json:"original_label,omitempty"`
}

// conditionalDecisionCodes are 510(k) decision codes that grant equivalence
// with attached conditions (limitations or required postmarket surveillance).
var conditionalDecisionCodes = map[string]bool{
	"SESU": true,
	"SESP": true,
}

// IsConditionalDecision reports whether the record's decision carries conditions.
func (r *DeviceRecord) IsConditionalDecision() bool {
	return r != nil && conditionalDecisionCodes[r.DecisionCode]
}

// HasRegulatoryData reports whether any recall/adverse-event data was returned.
func (r *DeviceRecord) HasRegulatoryData() bool {
	if r == nil {
		return false
	}
	return r.RecallCount != nil || r.AdverseEventCount != nil || r.DeathEventCount != nil
}

// OlderThan reports whether the decision date lies more than the given
// number of years before now. Unknown dates are never old.
func (r *DeviceRecord) OlderThan(now time.Time, years int) bool {
	if r == nil || r.DecisionDate == nil {
		return false
	}
	return r.DecisionDate.Before(now.AddDate(-years, 0, 0))
}

// AgeYears returns the whole years elapsed since the decision date,
// or -1 when the date is unknown.
func (r *DeviceRecord) AgeYears(now time.Time) int {
	if r == nil || r.DecisionDate == nil {
		return -1
	}
	years := int(now.Sub(*r.DecisionDate).Hours() / (24 * 365.25))
	if years < 0 {
		years = 0
	}
	return years
}
