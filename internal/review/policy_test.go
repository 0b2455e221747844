package review

import (
	"testing"

	"predscan/internal/model"
)

func item(total int) Item {
	return Item{
		Identifier: "K100001",
		Score:      model.ScoreBreakdown{Total: total},
	}
}

func TestAutoOutcome_Bands(t *testing.T) {
	cases := []struct {
		total     int
		threshold int
		want      model.Outcome
	}{
		{70, 70, model.OutcomeAccepted},
		{69, 70, model.OutcomeDeferred},
		{40, 70, model.OutcomeDeferred},
		{39, 70, model.OutcomeRejectedReference},
		{0, 70, model.OutcomeRejectedReference},
		{100, 70, model.OutcomeAccepted},
		{50, 50, model.OutcomeAccepted},
		{49, 50, model.OutcomeDeferred},
	}

	for _, tc := range cases {
		got, rationale := AutoOutcome(tc.total, tc.threshold)
		if got != tc.want {
			t.Errorf("AutoOutcome(%d, %d) = %s, want %s", tc.total, tc.threshold, got, tc.want)
		}
		if rationale == "" {
			t.Errorf("AutoOutcome(%d, %d) produced empty rationale", tc.total, tc.threshold)
		}
	}
}

func TestAutoOutcome_Exhaustive(t *testing.T) {
	// Every score and threshold must produce exactly one terminal outcome.
	for threshold := 1; threshold < 100; threshold++ {
		for total := 0; total <= 100; total++ {
			got, _ := AutoOutcome(total, threshold)
			if !got.Terminal() {
				t.Fatalf("AutoOutcome(%d, %d) = %s, expected a terminal outcome", total, threshold, got)
			}
			switch got {
			case model.OutcomeAccepted, model.OutcomeDeferred, model.OutcomeRejectedReference:
			default:
				t.Fatalf("AutoOutcome(%d, %d) = unexpected outcome %s", total, threshold, got)
			}
		}
	}
}

func TestPolicy_FullAuto(t *testing.T) {
	policy := NewPolicy(model.ModeAuto, 70, nil)

	outcome, rationale, auto := policy.Decide(item(70))
	if outcome != model.OutcomeAccepted {
		t.Errorf("Expected accepted at threshold, got %s", outcome)
	}
	if !auto {
		t.Error("Full-auto decisions must be tagged auto")
	}
	if rationale == "" {
		t.Error("Full-auto decisions must carry a rationale")
	}
}

func TestPolicy_FullAutoNeverPending(t *testing.T) {
	policy := NewPolicy(model.ModeAuto, 70, nil)

	for total := 0; total <= 100; total++ {
		outcome, _, _ := policy.Decide(item(total))
		if !outcome.Terminal() {
			t.Fatalf("Full-auto produced non-terminal outcome %s at score %d", outcome, total)
		}
	}
}

func TestPolicy_DefaultThreshold(t *testing.T) {
	policy := NewPolicy(model.ModeAuto, 0, nil)

	outcome, _, _ := policy.Decide(item(model.DefaultAutoThreshold))
	if outcome != model.OutcomeAccepted {
		t.Errorf("Expected accepted at default threshold, got %s", outcome)
	}

	outcome, _, _ = policy.Decide(item(model.DefaultAutoThreshold - 1))
	if outcome != model.OutcomeDeferred {
		t.Errorf("Expected deferred just below default threshold, got %s", outcome)
	}
}

func TestPolicy_ThresholdMode(t *testing.T) {
	var asked []string
	actor := func(i Item) (model.Outcome, string) {
		asked = append(asked, i.Identifier)
		return model.OutcomeAccepted, "operator confirmed"
	}
	policy := NewPolicy(model.ModeThreshold, 0, actor)

	// Extremes never reach the actor.
	outcome, _, auto := policy.Decide(item(85))
	if outcome != model.OutcomeAccepted || !auto {
		t.Errorf("Expected auto-accept at 85, got %s (auto=%v)", outcome, auto)
	}
	outcome, _, auto = policy.Decide(item(10))
	if outcome != model.OutcomeRejectedNoise || !auto {
		t.Errorf("Expected auto noise rejection at 10, got %s (auto=%v)", outcome, auto)
	}
	if len(asked) != 0 {
		t.Fatalf("Actor consulted for extreme scores: %v", asked)
	}

	// The middle band is routed to the actor.
	outcome, rationale, auto := policy.Decide(item(50))
	if outcome != model.OutcomeAccepted || auto {
		t.Errorf("Expected actor-accepted at 50, got %s (auto=%v)", outcome, auto)
	}
	if rationale != "operator confirmed" {
		t.Errorf("Expected verbatim actor rationale, got %q", rationale)
	}
	if len(asked) != 1 {
		t.Errorf("Expected 1 actor consultation, got %d", len(asked))
	}
}

func TestPolicy_ThresholdModeBoundaries(t *testing.T) {
	actorCalls := 0
	actor := func(Item) (model.Outcome, string) {
		actorCalls++
		return model.OutcomeDeferred, ""
	}
	policy := NewPolicy(model.ModeThreshold, 0, actor)

	// 80 auto-accepts; 79 routes to the actor; 20 routes; 19 auto-rejects.
	if outcome, _, _ := policy.Decide(item(80)); outcome != model.OutcomeAccepted {
		t.Errorf("Expected accepted at 80, got %s", outcome)
	}
	if outcome, _, _ := policy.Decide(item(19)); outcome != model.OutcomeRejectedNoise {
		t.Errorf("Expected noise rejection at 19, got %s", outcome)
	}
	policy.Decide(item(79))
	policy.Decide(item(20))
	if actorCalls != 2 {
		t.Errorf("Expected 2 actor consultations for the middle band, got %d", actorCalls)
	}
}

func TestPolicy_InteractiveWithoutActor(t *testing.T) {
	policy := NewPolicy(model.ModeInteractive, 0, nil)

	outcome, _, _ := policy.Decide(item(95))
	if outcome != model.OutcomePending {
		t.Errorf("Expected pending without an actor, got %s", outcome)
	}
}

func TestPolicy_InteractiveRecordsActorOutcome(t *testing.T) {
	actor := func(Item) (model.Outcome, string) {
		return model.OutcomeRejectedReference, "reference only, not a comparison basis"
	}
	policy := NewPolicy(model.ModeInteractive, 0, actor)

	outcome, rationale, auto := policy.Decide(item(95))
	if outcome != model.OutcomeRejectedReference {
		t.Errorf("Expected actor outcome regardless of score, got %s", outcome)
	}
	if auto {
		t.Error("Interactive decisions must not be tagged auto")
	}
	if rationale != "reference only, not a comparison basis" {
		t.Errorf("Expected verbatim rationale, got %q", rationale)
	}
}
