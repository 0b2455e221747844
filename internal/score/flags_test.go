package score

import (
	"testing"

	"predscan/internal/model"
)

func newTestFlagEngine() *FlagEngine {
	e := NewFlagEngine()
	e.now = fixedNow
	return e
}

func TestFlagEngine_AllTriggersIndependent(t *testing.T) {
	engine := newTestFlagEngine()
	subject := Subject{ProductCode: "DQY"}

	record := &model.DeviceRecord{
		Identifier:        "K100001",
		ProductCode:       "ABC",
		DecisionCode:      "SESU",
		DecisionDate:      datePtr(12),
		RecallCount:       intPtr(3),
		ClassIRecallCount: 1,
		AdverseEventCount: intPtr(51),
		DeathEventCount:   intPtr(2),
	}

	flags := engine.Evaluate(record, subject, "previously rejected")

	want := []model.Flag{
		model.FlagConditionalDecision,
		model.FlagDeathEvents,
		model.FlagExcluded,
		model.FlagHighAdverseEvents,
		model.FlagOld,
		model.FlagProductTypeMismatch,
		model.FlagRecalled,
		model.FlagRecalledClassI,
	}

	if len(flags) != len(want) {
		t.Fatalf("Expected %d flags, got %d: %v", len(want), len(flags), flags.Sorted())
	}
	for _, f := range want {
		if !flags.Has(f) {
			t.Errorf("Expected flag %s", f)
		}
	}
}

func TestFlagEngine_CleanRecord(t *testing.T) {
	engine := newTestFlagEngine()

	record := &model.DeviceRecord{
		Identifier:        "K100001",
		ProductCode:       "DQY",
		DecisionCode:      "SESE",
		DecisionDate:      datePtr(2),
		RecallCount:       intPtr(0),
		AdverseEventCount: intPtr(4),
		DeathEventCount:   intPtr(0),
	}

	flags := engine.Evaluate(record, Subject{ProductCode: "DQY"}, "")
	if len(flags) != 0 {
		t.Errorf("Expected no flags, got %v", flags.Sorted())
	}
}

func TestFlagEngine_ThresholdBoundaries(t *testing.T) {
	engine := newTestFlagEngine()
	subject := Subject{ProductCode: "DQY"}

	// Exactly at the adverse-event threshold: not flagged.
	atThreshold := &model.DeviceRecord{ProductCode: "DQY", AdverseEventCount: intPtr(AdverseEventThreshold)}
	if engine.Evaluate(atThreshold, subject, "").Has(model.FlagHighAdverseEvents) {
		t.Errorf("Expected no HIGH_ADVERSE_EVENTS at exactly %d events", AdverseEventThreshold)
	}

	over := &model.DeviceRecord{ProductCode: "DQY", AdverseEventCount: intPtr(AdverseEventThreshold + 1)}
	if !engine.Evaluate(over, subject, "").Has(model.FlagHighAdverseEvents) {
		t.Error("Expected HIGH_ADVERSE_EVENTS over threshold")
	}

	// The cutoff is strictly more than 10 years before the review date, so
	// a record a few months past its tenth anniversary is already old.
	nineAndAHalf := &model.DeviceRecord{ProductCode: "DQY", DecisionDate: datePtr(9.5)}
	if engine.Evaluate(nineAndAHalf, subject, "").Has(model.FlagOld) {
		t.Error("Expected no OLD flag at 9.5 years")
	}
	tenAndAHalf := &model.DeviceRecord{ProductCode: "DQY", DecisionDate: datePtr(10.5)}
	if !engine.Evaluate(tenAndAHalf, subject, "").Has(model.FlagOld) {
		t.Error("Expected OLD flag at 10.5 years")
	}
	elevenYears := &model.DeviceRecord{ProductCode: "DQY", DecisionDate: datePtr(11)}
	if !engine.Evaluate(elevenYears, subject, "").Has(model.FlagOld) {
		t.Error("Expected OLD flag at 11 years")
	}
}

func TestFlagEngine_NilRecord(t *testing.T) {
	engine := newTestFlagEngine()

	flags := engine.Evaluate(nil, Subject{}, "")
	if len(flags) != 0 {
		t.Errorf("Expected no flags for nil record, got %v", flags.Sorted())
	}

	flags = engine.Evaluate(nil, Subject{}, "on exclusion list")
	if !flags.Has(model.FlagExcluded) || len(flags) != 1 {
		t.Errorf("Expected only EXCLUDED for nil record on exclusion list, got %v", flags.Sorted())
	}
}

func TestFlagEngine_MismatchRequiresBothCodes(t *testing.T) {
	engine := newTestFlagEngine()

	record := &model.DeviceRecord{ProductCode: "ABC"}
	if engine.Evaluate(record, Subject{}, "").Has(model.FlagProductTypeMismatch) {
		t.Error("Expected no mismatch flag when subject code is unknown")
	}

	unknown := &model.DeviceRecord{}
	if engine.Evaluate(unknown, Subject{ProductCode: "DQY"}, "").Has(model.FlagProductTypeMismatch) {
		t.Error("Expected no mismatch flag when record code is unknown")
	}
}
