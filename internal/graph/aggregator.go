package graph

import (
	"sort"
	"sync"

	"predscan/internal/model"
)

// Citation weights used to rank candidate predicates. A source citing a
// target inside a strong zone counts three times a weak-only source.
const (
	StrongWeight = 3
	WeakWeight   = 1
)

// Aggregator accumulates classified occurrences from an entire corpus into
// a weighted directed multigraph: source document -> cited identifier.
// Construct one per review run; Add is safe for concurrent workers, and
// rebuilding from the same corpus always yields the same graph.
type Aggregator struct {
	mu    sync.Mutex
	edges map[edgeKey]*model.CitationEdge
}

type edgeKey struct {
	source string
	target string
}

// NewAggregator creates an empty citation graph.
func NewAggregator() *Aggregator {
	return &Aggregator{
		edges: make(map[edgeKey]*model.CitationEdge),
	}
}

// Add accumulates one document's occurrences into the graph.
func (a *Aggregator) Add(occurrences []model.Occurrence) {
	if len(occurrences) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, o := range occurrences {
		if o.Identifier == o.DocumentID {
			continue
		}
		key := edgeKey{source: o.DocumentID, target: o.Identifier}
		edge, ok := a.edges[key]
		if !ok {
			edge = &model.CitationEdge{SourceID: o.DocumentID, Target: o.Identifier}
			a.edges[key] = edge
		}
		switch o.ZoneKind {
		case model.ZoneStrong:
			edge.StrongCount++
		default:
			edge.WeakCount++
		}
	}
}

// Edges returns every edge sorted by (source, target) for stable output.
func (a *Aggregator) Edges() []model.CitationEdge {
	a.mu.Lock()
	defer a.mu.Unlock()

	edges := make([]model.CitationEdge, 0, len(a.edges))
	for _, e := range a.edges {
		edges = append(edges, *e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// EdgesFrom returns the outgoing edges of one source document, sorted by target.
func (a *Aggregator) EdgesFrom(source string) []model.CitationEdge {
	a.mu.Lock()
	defer a.mu.Unlock()

	var edges []model.CitationEdge
	for _, e := range a.edges {
		if e.SourceID == source {
			edges = append(edges, *e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Target < edges[j].Target })
	return edges
}

// Targets returns every cited identifier, sorted.
func (a *Aggregator) Targets() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	seen := make(map[string]bool)
	for key := range a.edges {
		seen[key.target] = true
	}

	targets := make([]string, 0, len(seen))
	for t := range seen {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// StrongSources returns the distinct source documents citing the target in a
// strong zone. A source with both strong and weak occurrences counts as strong.
func (a *Aggregator) StrongSources(target string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sourcesLocked(target, true)
}

// WeakOnlySources returns the distinct source documents whose citations of
// the target are exclusively weak.
func (a *Aggregator) WeakOnlySources(target string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sourcesLocked(target, false)
}

func (a *Aggregator) sourcesLocked(target string, strong bool) []string {
	var sources []string
	for _, e := range a.edges {
		if e.Target != target {
			continue
		}
		isStrong := e.StrongCount > 0
		if isStrong == strong {
			sources = append(sources, e.SourceID)
		}
	}
	sort.Strings(sources)
	return sources
}

// Weighted computes the weighted citation score for a target:
// distinct strong sources * StrongWeight + distinct weak-only sources * WeakWeight.
func (a *Aggregator) Weighted(target string) int {
	s := a.Summary(target)
	return s.Weighted
}

// Summary builds the corpus-wide citation profile of one target.
func (a *Aggregator) Summary(target string) *model.CitationSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &model.CitationSummary{Target: target}
	for _, e := range a.edges {
		if e.Target != target {
			continue
		}
		s.StrongOccurrences += e.StrongCount
		s.WeakOccurrences += e.WeakCount
		if e.StrongCount > 0 {
			s.StrongSources++
		} else {
			s.WeakOnlySources++
		}
	}
	s.Weighted = s.StrongSources*StrongWeight + s.WeakOnlySources*WeakWeight
	return s
}

// Len returns the number of edges in the graph.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.edges)
}
