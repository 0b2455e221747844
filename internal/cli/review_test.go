package cli

import (
	"io"
	"strings"
	"testing"

	"predscan/internal/model"
	"predscan/internal/review"
)

func TestPromptActor_MapsInputToOutcomes(t *testing.T) {
	tests := []struct {
		input   string
		outcome model.Outcome
	}{
		{"a\n", model.OutcomeAccepted},
		{"accept\n", model.OutcomeAccepted},
		{"r\n", model.OutcomeRejectedReference},
		{"n\n", model.OutcomeRejectedNoise},
		{"d\n", model.OutcomeDeferred},
		{"s\n", model.OutcomePending},
		{"garbage\n", model.OutcomePending},
	}

	for _, tt := range tests {
		actor := promptActor(strings.NewReader(tt.input), io.Discard)
		outcome, _ := actor(review.Item{Identifier: "K111111"})
		if outcome != tt.outcome {
			t.Errorf("input %q: outcome = %s, want %s", strings.TrimSpace(tt.input), outcome, tt.outcome)
		}
	}
}

func TestPromptActor_EOFLeavesPending(t *testing.T) {
	actor := promptActor(strings.NewReader(""), io.Discard)

	outcome, rationale := actor(review.Item{Identifier: "K111111"})
	if outcome != model.OutcomePending || rationale != "" {
		t.Errorf("EOF should leave pending, got %s %q", outcome, rationale)
	}
}

func TestPromptActor_ShowsItemContext(t *testing.T) {
	var out strings.Builder
	actor := promptActor(strings.NewReader("a\n"), &out)

	_, _ = actor(review.Item{
		Identifier:     "K111111",
		Score:          model.ScoreBreakdown{Total: 85},
		Flags:          []model.Flag{model.FlagRecalled},
		ReclassifiedAs: model.ReclassPredicate,
		Snippets:       []string{"predicate device K111111"},
	})

	prompt := out.String()
	for _, want := range []string{"K111111", "85/100", "RECALLED", "predicate device K111111"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
