package graph

import (
	"reflect"
	"sync"
	"testing"

	"predscan/internal/model"
)

func occ(doc, id string, kind model.ZoneKind) model.Occurrence {
	return model.Occurrence{DocumentID: doc, Identifier: id, ZoneKind: kind}
}

func TestAggregator_EdgeAccumulation(t *testing.T) {
	agg := NewAggregator()
	agg.Add([]model.Occurrence{
		occ("K000001", "K100001", model.ZoneStrong),
		occ("K000001", "K100001", model.ZoneWeak),
		occ("K000001", "K100002", model.ZoneWeak),
	})

	edges := agg.Edges()
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}

	first := edges[0]
	if first.Target != "K100001" || first.StrongCount != 1 || first.WeakCount != 1 {
		t.Errorf("Unexpected edge %+v", first)
	}
}

func TestAggregator_WeightedScore(t *testing.T) {
	// A strong, B strong, C weak-only: weighted = 2*3 + 1*1 = 7.
	agg := NewAggregator()
	agg.Add([]model.Occurrence{occ("A", "K100001", model.ZoneStrong)})
	agg.Add([]model.Occurrence{occ("B", "K100001", model.ZoneStrong)})
	agg.Add([]model.Occurrence{occ("C", "K100001", model.ZoneWeak)})

	if got := agg.Weighted("K100001"); got != 7 {
		t.Errorf("Expected weighted score 7, got %d", got)
	}

	s := agg.Summary("K100001")
	if s.StrongSources != 2 {
		t.Errorf("Expected 2 strong sources, got %d", s.StrongSources)
	}
	if s.WeakOnlySources != 1 {
		t.Errorf("Expected 1 weak-only source, got %d", s.WeakOnlySources)
	}
}

func TestAggregator_MixedSourceCountsAsStrong(t *testing.T) {
	// One source citing both strong and weak counts once, as strong.
	agg := NewAggregator()
	agg.Add([]model.Occurrence{
		occ("A", "K100001", model.ZoneStrong),
		occ("A", "K100001", model.ZoneWeak),
	})

	if got := agg.StrongSources("K100001"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Expected strong sources [A], got %v", got)
	}
	if got := agg.WeakOnlySources("K100001"); len(got) != 0 {
		t.Errorf("Expected no weak-only sources, got %v", got)
	}
	if got := agg.Weighted("K100001"); got != StrongWeight {
		t.Errorf("Expected weighted %d, got %d", StrongWeight, got)
	}
}

func TestAggregator_WeightedMonotonicity(t *testing.T) {
	agg := NewAggregator()
	agg.Add([]model.Occurrence{occ("A", "K100001", model.ZoneWeak)})
	before := agg.Weighted("K100001")

	agg.Add([]model.Occurrence{occ("B", "K100001", model.ZoneStrong)})
	after := agg.Weighted("K100001")

	if after < before {
		t.Errorf("Adding a strong source decreased weighted score: %d -> %d", before, after)
	}
}

func TestAggregator_IdempotentRebuild(t *testing.T) {
	corpus := [][]model.Occurrence{
		{occ("A", "K100001", model.ZoneStrong), occ("A", "K100002", model.ZoneWeak)},
		{occ("B", "K100001", model.ZoneStrong)},
		{occ("C", "K100001", model.ZoneWeak), occ("C", "K100002", model.ZoneWeak)},
	}

	build := func() []model.CitationEdge {
		agg := NewAggregator()
		for _, occs := range corpus {
			agg.Add(occs)
		}
		return agg.Edges()
	}

	first := build()
	second := build()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Rebuild from identical corpus produced different edges:\n%v\n%v", first, second)
	}
}

func TestAggregator_OrderIndependent(t *testing.T) {
	docs := [][]model.Occurrence{
		{occ("A", "K100001", model.ZoneStrong)},
		{occ("B", "K100001", model.ZoneWeak)},
		{occ("C", "K100002", model.ZoneStrong)},
	}

	forward := NewAggregator()
	for i := 0; i < len(docs); i++ {
		forward.Add(docs[i])
	}

	reverse := NewAggregator()
	for i := len(docs) - 1; i >= 0; i-- {
		reverse.Add(docs[i])
	}

	if !reflect.DeepEqual(forward.Edges(), reverse.Edges()) {
		t.Error("Aggregation must be order independent")
	}
}

func TestAggregator_ConcurrentAdd(t *testing.T) {
	agg := NewAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Add([]model.Occurrence{occ("A", "K100001", model.ZoneStrong)})
		}()
	}
	wg.Wait()

	edges := agg.Edges()
	if len(edges) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(edges))
	}
	if edges[0].StrongCount != 50 {
		t.Errorf("Expected 50 strong occurrences, got %d", edges[0].StrongCount)
	}
}

func TestAggregator_SelfEdgeNeverStored(t *testing.T) {
	agg := NewAggregator()
	agg.Add([]model.Occurrence{occ("K100001", "K100001", model.ZoneStrong)})

	if agg.Len() != 0 {
		t.Errorf("Expected empty graph, got %d edges", agg.Len())
	}
}

func TestAggregator_Targets(t *testing.T) {
	agg := NewAggregator()
	agg.Add([]model.Occurrence{
		occ("A", "K100002", model.ZoneWeak),
		occ("A", "K100001", model.ZoneStrong),
		occ("B", "K100001", model.ZoneWeak),
	})

	want := []string{"K100001", "K100002"}
	if got := agg.Targets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected targets %v, got %v", want, got)
	}
}

func TestAggregator_UncitedTargetSummary(t *testing.T) {
	agg := NewAggregator()

	s := agg.Summary("K999999")
	if s.Weighted != 0 || s.StrongSources != 0 || s.WeakOnlySources != 0 {
		t.Errorf("Expected empty summary for uncited target, got %+v", s)
	}
}
