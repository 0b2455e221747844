package score

import (
	"testing"

	"predscan/internal/model"
)

func TestReclassify_Table(t *testing.T) {
	strong := &model.CitationSummary{StrongSources: 1, Weighted: 3}
	weakOnly := &model.CitationSummary{WeakOnlySources: 2, Weighted: 2}

	cases := []struct {
		name      string
		original  model.OriginalLabel
		citations *model.CitationSummary
		want      model.Reclassification
	}{
		{"predicate confirmed by strong evidence", model.LabelPredicate, strong, model.ReclassPredicate},
		{"predicate with weak-only evidence", model.LabelPredicate, weakOnly, model.ReclassUncertain},
		{"reference upgraded by strong evidence", model.LabelReference, strong, model.ReclassPredicate},
		{"reference confirmed by weak evidence", model.LabelReference, weakOnly, model.ReclassReference},
		{"unknown with strong evidence", model.LabelUnknown, strong, model.ReclassPredicate},
		{"unknown with weak evidence", model.LabelUnknown, weakOnly, model.ReclassUncertain},
		{"unknown uncited", model.LabelUnknown, nil, model.ReclassUncertain},
		{"predicate uncited", model.LabelPredicate, nil, model.ReclassUncertain},
		{"reference uncited", model.LabelReference, nil, model.ReclassReference},
	}

	for _, tc := range cases {
		if got := Reclassify(tc.original, tc.citations); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
