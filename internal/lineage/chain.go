package lineage

import (
	"fmt"

	"predscan/internal/model"
)

// Traversal and health-score constants.
const (
	// DefaultMaxDepth is how many generations of predicates are followed
	// when the caller does not override it.
	DefaultMaxDepth = 2

	RecalledAncestorPenalty = 30
	DeepChainThreshold      = 3 // Generations beyond this each cost DeepChainPenalty
	DeepChainPenalty        = 5
	ScopeDivergencePenalty  = 10
)

// Graph supplies outgoing citation edges for traversal.
type Graph interface {
	EdgesFrom(source string) []model.CitationEdge
}

// RecallChecker reports whether an identifier's record carries any recall.
// Lookups that fail resolve to false; missing data never aborts a trace.
type RecallChecker func(identifier string) bool

// Tracer builds multi-generation predicate chains from the citation graph.
type Tracer struct {
	graph    Graph
	recalled RecallChecker
}

// NewTracer creates a tracer over the given graph. recalled may be nil when
// no recall data is available.
func NewTracer(graph Graph, recalled RecallChecker) *Tracer {
	return &Tracer{graph: graph, recalled: recalled}
}

// Trace follows outgoing citation edges from root for up to maxDepth
// generations and computes the chain's health score. scopeDiverged is a
// caller-supplied judgement that the subject's stated scope materially
// differs from an ancestor's; the text comparison itself happens upstream.
func (t *Tracer) Trace(root string, maxDepth int, scopeDiverged bool) *model.LineageChain {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	chain := &model.LineageChain{
		Root:     root,
		MaxDepth: maxDepth,
	}

	visited := map[string]bool{root: true}
	current := []model.LineageEntry{{Identifier: root, Generation: 0, Recalled: t.isRecalled(root)}}
	chain.Entries = append(chain.Entries, current[0])

	deepest := 0
	for generation := 1; generation <= maxDepth; generation++ {
		var next []model.LineageEntry
		for _, parent := range current {
			for _, edge := range t.graph.EdgesFrom(parent.Identifier) {
				if visited[edge.Target] {
					continue
				}
				visited[edge.Target] = true
				entry := model.LineageEntry{
					Identifier: edge.Target,
					Generation: generation,
					CitedBy:    parent.Identifier,
					Recalled:   t.isRecalled(edge.Target),
				}
				next = append(next, entry)
			}
		}
		if len(next) == 0 {
			break
		}
		chain.Entries = append(chain.Entries, next...)
		current = next
		deepest = generation
	}

	chain.HealthScore, chain.Issues = t.health(chain, deepest, scopeDiverged)
	return chain
}

// health applies the documented deductions, flooring the score at 0.
func (t *Tracer) health(chain *model.LineageChain, deepest int, scopeDiverged bool) (int, []model.LineageIssue) {
	score := 100
	var issues []model.LineageIssue

	for _, e := range chain.Entries {
		if e.Generation == 0 || !e.Recalled {
			continue
		}
		score -= RecalledAncestorPenalty
		issues = append(issues, model.LineageIssue{
			Kind:       model.IssueRecalledAncestor,
			Identifier: e.Identifier,
			Detail:     fmt.Sprintf("ancestor %s (generation %d) has been recalled", e.Identifier, e.Generation),
			Penalty:    RecalledAncestorPenalty,
		})
		break // One deduction regardless of how many ancestors are recalled
	}

	if deepest > DeepChainThreshold {
		penalty := (deepest - DeepChainThreshold) * DeepChainPenalty
		score -= penalty
		issues = append(issues, model.LineageIssue{
			Kind:    model.IssueExcessiveDepth,
			Detail:  fmt.Sprintf("chain reaches generation %d", deepest),
			Penalty: penalty,
		})
	}

	if scopeDiverged {
		score -= ScopeDivergencePenalty
		issues = append(issues, model.LineageIssue{
			Kind:    model.IssueScopeDivergence,
			Detail:  "subject's stated scope diverges from an ancestor's",
			Penalty: ScopeDivergencePenalty,
		})
	}

	if score < 0 {
		score = 0
	}
	return score, issues
}

func (t *Tracer) isRecalled(identifier string) bool {
	if t.recalled == nil {
		return false
	}
	return t.recalled(identifier)
}
