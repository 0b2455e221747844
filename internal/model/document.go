package model

// Document is one source regulatory record's summary text.
// Immutable once loaded; an unavailable document has empty Text.
type Document struct {
	ID   string `json:"id"`   // Normalized identifier (e.g., "K123456")
	Text string `json:"text"` // Full summary text, may be empty
}

// Available reports whether the document's text could be loaded.
func (d Document) Available() bool {
	return d.Text != ""
}

// ZoneKind classifies the evidentiary weight of a text region
type ZoneKind string

const (
	ZoneStrong ZoneKind = "strong" // Inside an equivalence-discussion window
	ZoneWeak   ZoneKind = "weak"   // Ordinary body text
)

// Span is a half-open byte range [Start, End) within a document's text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the offset falls within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Mention is a raw identifier match, before zone classification
type Mention struct {
	Identifier string `json:"identifier"` // Normalized (uppercase) identifier
	Offset     int    `json:"offset"`     // Byte offset of the match
}

// Occurrence is one classified citation of an identifier inside a document.
// Self-citations (identifier == owning document ID) are never emitted.
type Occurrence struct {
	DocumentID string   `json:"document_id"`
	Identifier string   `json:"identifier"`
	Offset     int      `json:"offset"`
	ZoneKind   ZoneKind `json:"zone_kind"`
	Snippet    string   `json:"snippet,omitempty"` // Surrounding text for review display
}

// CitationEdge aggregates all occurrences of one target identifier
// within one source document. Unique per (source, target) pair.
type CitationEdge struct {
	SourceID    string `json:"source_id"`
	Target      string `json:"target"`
	StrongCount int    `json:"strong_count"`
	WeakCount   int    `json:"weak_count"`
}

// CitationSummary is the corpus-wide citation profile of one target identifier
type CitationSummary struct {
	Target            string `json:"target"`
	StrongSources     int    `json:"strong_sources"`      // Distinct sources with >=1 strong occurrence
	WeakOnlySources   int    `json:"weak_only_sources"`   // Distinct sources with weak occurrences only
	StrongOccurrences int    `json:"strong_occurrences"`
	WeakOccurrences   int    `json:"weak_occurrences"`
	Weighted          int    `json:"weighted"`            // strong_sources*3 + weak_only_sources*1
}
