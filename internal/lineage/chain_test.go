package lineage

import (
	"testing"

	"predscan/internal/graph"
	"predscan/internal/model"
)

// buildGraph wires a small citation graph: each pair is source -> target.
func buildGraph(pairs [][2]string) *graph.Aggregator {
	agg := graph.NewAggregator()
	for _, p := range pairs {
		agg.Add([]model.Occurrence{{
			DocumentID: p[0],
			Identifier: p[1],
			ZoneKind:   model.ZoneStrong,
		}})
	}
	return agg
}

func TestTracer_TwoGenerations(t *testing.T) {
	g := buildGraph([][2]string{
		{"K000001", "K100001"},
		{"K000001", "K100002"},
		{"K100001", "K200001"},
		{"K200001", "K300001"}, // Generation 3: beyond default depth
	})

	tracer := NewTracer(g, nil)
	chain := tracer.Trace("K000001", DefaultMaxDepth, false)

	ids := map[string]int{}
	for _, e := range chain.Entries {
		ids[e.Identifier] = e.Generation
	}

	if ids["K000001"] != 0 {
		t.Errorf("Expected root at generation 0, got %d", ids["K000001"])
	}
	if ids["K100001"] != 1 || ids["K100002"] != 1 {
		t.Errorf("Expected first generation predicates, got %v", ids)
	}
	if ids["K200001"] != 2 {
		t.Errorf("Expected K200001 at generation 2, got %d", ids["K200001"])
	}
	if _, ok := ids["K300001"]; ok {
		t.Error("Expected traversal to stop at max depth")
	}

	if chain.HealthScore != 100 {
		t.Errorf("Expected healthy chain score 100, got %d", chain.HealthScore)
	}
	if len(chain.Issues) != 0 {
		t.Errorf("Expected no issues, got %v", chain.Issues)
	}
}

func TestTracer_RecalledAncestor(t *testing.T) {
	g := buildGraph([][2]string{
		{"K000001", "K100001"},
		{"K100001", "K200001"},
	})

	recalled := func(id string) bool { return id == "K200001" }
	tracer := NewTracer(g, recalled)
	chain := tracer.Trace("K000001", 2, false)

	if chain.HealthScore != 70 {
		t.Errorf("Expected health 70 with recalled ancestor, got %d", chain.HealthScore)
	}
	if len(chain.Issues) != 1 || chain.Issues[0].Kind != model.IssueRecalledAncestor {
		t.Fatalf("Expected one recalled_ancestor issue, got %v", chain.Issues)
	}
	if chain.Issues[0].Identifier != "K200001" {
		t.Errorf("Expected issue to name K200001, got %s", chain.Issues[0].Identifier)
	}
}

func TestTracer_RecalledRootDoesNotPenalize(t *testing.T) {
	g := buildGraph([][2]string{{"K000001", "K100001"}})

	recalled := func(id string) bool { return id == "K000001" }
	tracer := NewTracer(g, recalled)
	chain := tracer.Trace("K000001", 2, false)

	if chain.HealthScore != 100 {
		t.Errorf("Expected root recall to not deduct ancestor penalty, got %d", chain.HealthScore)
	}
	if !chain.Entries[0].Recalled {
		t.Error("Expected root entry to still be marked recalled")
	}
}

func TestTracer_DeepChainPenalty(t *testing.T) {
	g := buildGraph([][2]string{
		{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"}, {"E", "F"},
	})

	tracer := NewTracer(g, nil)
	chain := tracer.Trace("A", 5, false)

	// Deepest generation 5: 2 generations beyond 3 cost 5 each.
	if chain.HealthScore != 90 {
		t.Errorf("Expected health 90 for depth-5 chain, got %d", chain.HealthScore)
	}
	if len(chain.Issues) != 1 || chain.Issues[0].Kind != model.IssueExcessiveDepth {
		t.Fatalf("Expected one excessive_depth issue, got %v", chain.Issues)
	}
}

func TestTracer_ScopeDivergence(t *testing.T) {
	g := buildGraph([][2]string{{"A", "B"}})

	tracer := NewTracer(g, nil)
	chain := tracer.Trace("A", 2, true)

	if chain.HealthScore != 90 {
		t.Errorf("Expected health 90 with scope divergence, got %d", chain.HealthScore)
	}
}

func TestTracer_HealthFloorsAtZero(t *testing.T) {
	// Long chain with a recalled ancestor and divergence; score would go
	// negative without the floor at extreme depth.
	pairs := [][2]string{}
	prev := "A"
	for i := 0; i < 20; i++ {
		next := string(rune('B' + i))
		pairs = append(pairs, [2]string{prev, next})
		prev = next
	}

	g := buildGraph(pairs)
	recalled := func(id string) bool { return id != "A" }
	tracer := NewTracer(g, recalled)
	chain := tracer.Trace("A", 20, true)

	if chain.HealthScore != 0 {
		t.Errorf("Expected health floored at 0, got %d", chain.HealthScore)
	}
}

func TestTracer_CycleSafe(t *testing.T) {
	g := buildGraph([][2]string{
		{"A", "B"},
		{"B", "A"}, // Citation cycle
	})

	tracer := NewTracer(g, nil)
	chain := tracer.Trace("A", 5, false)

	if len(chain.Entries) != 2 {
		t.Errorf("Expected cycle-safe traversal with 2 entries, got %d", len(chain.Entries))
	}
}

func TestTracer_UncitedRoot(t *testing.T) {
	g := graph.NewAggregator()

	tracer := NewTracer(g, nil)
	chain := tracer.Trace("K000001", 2, false)

	if len(chain.Entries) != 1 {
		t.Fatalf("Expected only the root entry, got %d", len(chain.Entries))
	}
	if chain.HealthScore != 100 {
		t.Errorf("Expected health 100 for single-node chain, got %d", chain.HealthScore)
	}
}
