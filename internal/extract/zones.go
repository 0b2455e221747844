package extract

import (
	"sort"
	"strings"

	"predscan/internal/model"
)

// ZoneWindow is the trailing window, in bytes, opened by each anchor match.
// Equivalence discussions in 510(k) summaries are short sections; identifiers
// cited this close to an anchor phrase are treated as deliberate comparisons.
const ZoneWindow = 2000

// zoneAnchors are the case-insensitive phrases that open a strong-evidence
// zone. Everything outside a zone is implicitly weak.
var zoneAnchors = []string{
	"substantial equivalence",
	"substantially equivalent",
	"predicate device",
	"predicate comparison",
	"comparison to predicate",
	"technological characteristics",
	"equivalence discussion",
}

// FindZones locates every strong-evidence zone in the text. Each anchor match
// opens a span from the anchor start through ZoneWindow bytes (or end of
// text); overlapping and adjacent spans are merged into maximal spans.
// Pure function of the input text; no match means zero zones.
func FindZones(text string) []model.Span {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)

	var spans []model.Span
	for _, anchor := range zoneAnchors {
		start := 0
		for {
			idx := strings.Index(lower[start:], anchor)
			if idx < 0 {
				break
			}
			at := start + idx
			end := at + ZoneWindow
			if end > len(text) {
				end = len(text)
			}
			spans = append(spans, model.Span{Start: at, End: end})
			start = at + len(anchor)
		}
	}

	return mergeSpans(spans)
}

// mergeSpans merges overlapping or adjacent spans into maximal spans.
func mergeSpans(spans []model.Span) []model.Span {
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})

	merged := []model.Span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}

	return merged
}

// ZoneKindAt classifies an offset against merged zones.
func ZoneKindAt(zones []model.Span, offset int) model.ZoneKind {
	for _, z := range zones {
		if z.Contains(offset) {
			return model.ZoneStrong
		}
	}
	return model.ZoneWeak
}
