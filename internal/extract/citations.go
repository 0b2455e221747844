package extract

import (
	"strings"

	"predscan/internal/model"
)

// snippetRadius is how much surrounding text each occurrence keeps for
// review display.
const snippetRadius = 80

// ClassifyCitations intersects identifier mentions with merged zones to tag
// each occurrence strong or weak, dropping self-citations. Pure per-document
// transform; safe to run across documents in parallel.
func ClassifyCitations(doc model.Document, zones []model.Span, mentions []model.Mention) []model.Occurrence {
	if len(mentions) == 0 {
		return nil
	}

	occurrences := make([]model.Occurrence, 0, len(mentions))
	for _, m := range mentions {
		if m.Identifier == doc.ID {
			continue
		}
		occurrences = append(occurrences, model.Occurrence{
			DocumentID: doc.ID,
			Identifier: m.Identifier,
			Offset:     m.Offset,
			ZoneKind:   ZoneKindAt(zones, m.Offset),
			Snippet:    snippet(doc.Text, m.Offset, len(m.Identifier)),
		})
	}

	if len(occurrences) == 0 {
		return nil
	}
	return occurrences
}

// Occurrences runs the full per-document extraction: zone detection,
// identifier extraction, and classification. An unavailable document
// (empty text) yields zero zones and zero occurrences, never an error.
func Occurrences(doc model.Document) []model.Occurrence {
	if !doc.Available() {
		return nil
	}
	zones := FindZones(doc.Text)
	mentions := FindIdentifiers(doc.Text)
	return ClassifyCitations(doc, zones, mentions)
}

// snippet extracts a single-line context window around a match.
func snippet(text string, offset, matchLen int) string {
	start := offset - snippetRadius
	if start < 0 {
		start = 0
	}
	end := offset + matchLen + snippetRadius
	if end > len(text) {
		end = len(text)
	}

	s := text[start:end]
	s = strings.Join(strings.Fields(s), " ")
	return s
}
