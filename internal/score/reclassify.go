package score

import "predscan/internal/model"

// Reclassify reconciles a record's original citation role against zone
// evidence. Strong-zone evidence from any source confirms or upgrades to
// predicate; weak-only evidence confirms a reference but demotes a claimed
// predicate to uncertain.
func Reclassify(original model.OriginalLabel, citations *model.CitationSummary) model.Reclassification {
	hasStrong := citations != nil && citations.StrongSources > 0

	switch original {
	case model.LabelPredicate:
		if hasStrong {
			return model.ReclassPredicate
		}
		return model.ReclassUncertain

	case model.LabelReference:
		if hasStrong {
			// Likely mislabeled in the source document.
			return model.ReclassPredicate
		}
		return model.ReclassReference

	default:
		if hasStrong {
			return model.ReclassPredicate
		}
		return model.ReclassUncertain
	}
}
