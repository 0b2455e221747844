package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"predscan/internal/cache"
	"predscan/internal/corpus"
	"predscan/internal/draft"
	"predscan/internal/extract"
	"predscan/internal/graph"
	"predscan/internal/lineage"
	"predscan/internal/model"
	"predscan/internal/registry"
	"predscan/internal/review"
	"predscan/internal/score"
	"predscan/internal/worker"
)

// snippetsPerCandidate caps the occurrence context shown to reviewers
const snippetsPerCandidate = 3

// Pipeline orchestrates a complete review run: corpus load, citation
// classification, graph aggregation, registry enrichment, scoring, flags,
// decisions and lineage.
type Pipeline struct {
	config   *model.Config
	loader   *corpus.Loader
	registry *registry.Client
	scorer   *score.Scorer
	flags    *score.FlagEngine
	policy   *review.Policy
	store    *review.Store
	drafter  draft.Provider
	renderer *Renderer
}

// NewPipeline wires a pipeline from configuration. The actor is consulted
// in interactive mode and in the middle band of threshold mode; storePath
// is where finalized decisions persist across runs.
func NewPipeline(cfg *model.Config, actor review.Actor, storePath string) (*Pipeline, error) {
	store, err := review.NewStore(storePath)
	if err != nil {
		return nil, fmt.Errorf("open decision store: %w", err)
	}

	var recordCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, ".predscan", "cache")
			}
		}
		if dir != "" {
			recordCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		} else {
			recordCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}

	var drafter draft.Provider
	if cfg.Draft.Provider != "" {
		d, err := draft.NewProvider(draft.ConfigFromModel(cfg.Draft, cfg.Registry))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: draft provider unavailable: %v\n", err)
		} else {
			drafter = d
		}
	}

	return &Pipeline{
		config:   cfg,
		loader:   corpus.NewLoader(cfg.Corpus.Dir, cfg.Output.Verbose),
		registry: registry.NewClient(cfg.Registry, cfg.Concurrency.LookupWorkers, recordCache),
		scorer:   score.NewScorer(),
		flags:    score.NewFlagEngine(),
		policy:   review.NewPolicy(cfg.Review.Mode, cfg.Review.AutoThreshold, actor),
		store:    store,
		drafter:  drafter,
		renderer: NewRenderer(cfg.Output.IncludeFooter, cfg.Output.Color),
	}, nil
}

// Run reviews one subject submission and returns the full report.
func (p *Pipeline) Run(ctx context.Context, subject string) (*model.Report, error) {
	subject = extract.Normalize(subject)
	if !extract.ValidIdentifier(subject) {
		return nil, fmt.Errorf("invalid subject identifier: %s", subject)
	}

	docs, err := p.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	aggregator, subjectSnippets := p.classify(docs, subject)

	candidates := candidateIdentifiers(aggregator, subject)

	var exclusions map[string]string
	if p.config.Review.ExclusionFile != "" {
		exclusions, err = corpus.ReadExclusions(p.config.Review.ExclusionFile)
		if err != nil {
			return nil, fmt.Errorf("load exclusions: %w", err)
		}
	}

	records := p.registry.LookupAll(ctx, append(append([]string{}, candidates...), subject))
	subjectRecord := records[subject]

	subjectInfo := score.Subject{Identifier: subject}
	if subjectRecord != nil {
		subjectInfo.ProductCode = subjectRecord.ProductCode
		subjectInfo.ReviewPanel = subjectRecord.ReviewPanel
	}

	report := &model.Report{
		RunID:           uuid.NewString(),
		Subject:         subject,
		GeneratedAt:     time.Now().UTC(),
		Mode:            p.config.Review.Mode,
		SubjectRecord:   subjectRecord,
		CorpusDocuments: len(docs),
		Edges:           aggregator.Edges(),
	}

	scopeDiverged := false
	for _, id := range candidates {
		summary := aggregator.Summary(id)
		record := records[id]

		breakdown := p.scorer.Calculate(summary, record, subjectInfo)
		flagSet := p.flags.Evaluate(record, subjectInfo, exclusions[id])
		reclassified := score.Reclassify(originalLabel(record), summary)

		if record != nil && record.ProductCode != "" && subjectInfo.ProductCode != "" &&
			record.ProductCode != subjectInfo.ProductCode {
			scopeDiverged = true
		}

		candidate := model.Candidate{
			Identifier:     id,
			Citations:      summary,
			Record:         record,
			Score:          breakdown,
			Flags:          flagSet.Sorted(),
			ReclassifiedAs: reclassified,
			Snippets:       subjectSnippets[id],
		}
		report.Candidates = append(report.Candidates, candidate)

		// A prior terminal decision stands unless re-review was requested.
		// Skipping Decide here keeps interactive runs from prompting the
		// actor for identifiers that are already settled.
		if prior, ok := p.store.Get(id); ok && prior.Outcome.Terminal() && !p.config.Review.ReReview {
			report.Decisions = append(report.Decisions, prior)
			continue
		}

		outcome, rationale, auto := p.policy.Decide(review.Item{
			Identifier:     id,
			Score:          breakdown,
			Flags:          candidate.Flags,
			ReclassifiedAs: reclassified,
			Snippets:       candidate.Snippets,
		})

		decision, _ := p.store.Finalize(model.Decision{
			Identifier:     id,
			Outcome:        outcome,
			Score:          breakdown,
			Flags:          candidate.Flags,
			ReclassifiedAs: reclassified,
			Rationale:      rationale,
			Auto:           auto,
			DecidedAt:      time.Now().UTC(),
		}, p.config.Review.ReReview)
		report.Decisions = append(report.Decisions, decision)
	}

	if err := p.store.Save(); err != nil {
		return nil, fmt.Errorf("save decisions: %w", err)
	}

	report.Lineage = p.trace(ctx, aggregator, records, subject, scopeDiverged)

	p.draftMemo(ctx, report)

	return report, nil
}

// TraceLineage traces the predicate chain for a root identifier without
// running the full review.
func (p *Pipeline) TraceLineage(ctx context.Context, root string, maxDepth int) (*model.LineageChain, error) {
	root = extract.Normalize(root)
	if !extract.ValidIdentifier(root) {
		return nil, fmt.Errorf("invalid root identifier: %s", root)
	}

	docs, err := p.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	aggregator, _ := p.classify(docs, root)
	if maxDepth <= 0 {
		maxDepth = p.config.Lineage.MaxDepth
	}

	tracer := lineage.NewTracer(aggregator, func(id string) bool {
		return p.registry.Recalled(ctx, id)
	})
	return tracer.Trace(root, maxDepth, false), nil
}

// Graph classifies the corpus and returns the full citation graph.
func (p *Pipeline) Graph() (*graph.Aggregator, int, error) {
	docs, err := p.loader.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("load corpus: %w", err)
	}
	aggregator, _ := p.classify(docs, "")
	return aggregator, len(docs), nil
}

// classify runs zone and citation classification across the corpus and
// collects the subject's own occurrence snippets for reviewer context.
func (p *Pipeline) classify(docs []model.Document, subject string) (*graph.Aggregator, map[string][]string) {
	aggregator := graph.NewAggregator()
	snippets := make(map[string][]string)

	results := worker.ClassifyAll(docs, p.config.Concurrency.Workers, extract.Occurrences)
	for _, result := range results {
		if result.GetError() != nil {
			continue
		}
		aggregator.Add(result.Occurrences)

		if result.DocumentID != subject {
			continue
		}
		for _, occ := range result.Occurrences {
			if len(snippets[occ.Identifier]) < snippetsPerCandidate {
				snippets[occ.Identifier] = append(snippets[occ.Identifier], occ.Snippet)
			}
		}
	}

	return aggregator, snippets
}

// candidateIdentifiers picks the identifiers under review. When the subject
// document is in the corpus its own citations are the candidates; otherwise
// every cited identifier in the corpus is.
func candidateIdentifiers(aggregator *graph.Aggregator, subject string) []string {
	edges := aggregator.EdgesFrom(subject)
	if len(edges) > 0 {
		candidates := make([]string, 0, len(edges))
		for _, edge := range edges {
			candidates = append(candidates, edge.Target)
		}
		sort.Strings(candidates)
		return candidates
	}

	var candidates []string
	for _, target := range aggregator.Targets() {
		if target != subject {
			candidates = append(candidates, target)
		}
	}
	return candidates
}

// trace builds the subject's lineage chain, reusing this run's registry
// lookups before falling back to live recall checks for deeper ancestors.
func (p *Pipeline) trace(ctx context.Context, aggregator *graph.Aggregator, records map[string]*model.DeviceRecord, subject string, scopeDiverged bool) *model.LineageChain {
	recalled := func(id string) bool {
		if record, ok := records[id]; ok {
			return record != nil && record.RecallCount != nil && *record.RecallCount > 0
		}
		return p.registry.Recalled(ctx, id)
	}

	tracer := lineage.NewTracer(aggregator, recalled)
	return tracer.Trace(subject, p.config.Lineage.MaxDepth, scopeDiverged)
}

// draftMemo attaches the optional narrative memo. Drafting failures degrade
// to warnings on the report; they never fail the run.
func (p *Pipeline) draftMemo(ctx context.Context, report *model.Report) {
	if p.drafter == nil {
		return
	}

	allowed := make([]string, 0, len(report.Candidates)+1)
	allowed = append(allowed, report.Subject)
	for _, candidate := range report.Candidates {
		allowed = append(allowed, candidate.Identifier)
	}
	if report.Lineage != nil {
		for _, entry := range report.Lineage.Entries {
			allowed = append(allowed, entry.Identifier)
		}
	}

	memo := &model.DraftMemo{
		Enabled:         true,
		Provider:        p.drafter.Name(),
		StrictGrounding: p.config.Draft.StrictGrounding,
	}

	resp, err := p.drafter.Draft(ctx, draft.Request{
		Report:             *report,
		AllowedIdentifiers: allowed,
		Model:              p.config.Draft.Model,
		MaxTokens:          p.config.Draft.MaxTokens,
	})
	if err != nil {
		memo.Warnings = append(memo.Warnings, err.Error())
	} else {
		memo.Model = resp.Model
		memo.MemoMD = resp.MemoMD
		memo.CitedIdentifiers = resp.CitedIdentifiers
	}

	report.Memo = memo
}

// originalLabel reads the registry's citation label, treating a missing
// record as unknown.
func originalLabel(record *model.DeviceRecord) model.OriginalLabel {
	if record == nil {
		return model.LabelUnknown
	}
	return record.OriginalLabel
}

// Renderer exposes the pipeline's renderer for the CLI.
func (p *Pipeline) Render() *Renderer {
	return p.renderer
}

// Decisions returns every persisted decision, for the CLI's listing output.
func (p *Pipeline) Decisions() []model.Decision {
	return p.store.All()
}
