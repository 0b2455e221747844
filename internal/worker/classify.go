package worker

import (
	"context"

	"predscan/internal/model"
)

// ClassifyFunc extracts zone-classified citation occurrences from one
// corpus document.
type ClassifyFunc func(doc model.Document) []model.Occurrence

// ClassifyJob classifies a single corpus document
type ClassifyJob struct {
	Doc      model.Document
	Classify ClassifyFunc
}

// Execute runs the classification. Extraction is pure CPU work, so a
// cancelled context only skips documents not yet started.
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return &ClassifyResult{DocumentID: j.Doc.ID, Error: ctx.Err()}
	default:
	}

	return &ClassifyResult{
		DocumentID:  j.Doc.ID,
		Occurrences: j.Classify(j.Doc),
	}
}

// ClassifyResult holds the occurrences found in one document
type ClassifyResult struct {
	DocumentID  string
	Occurrences []model.Occurrence
	Error       error
}

// GetError returns the classification error, if any
func (r *ClassifyResult) GetError() error {
	return r.Error
}

// ClassifyAll classifies documents concurrently and returns one result per
// document, in completion order.
func ClassifyAll(docs []model.Document, workers int, classify ClassifyFunc) []*ClassifyResult {
	if len(docs) == 0 {
		return nil
	}

	pool := NewPool(workers)
	pool.Start()

	for _, doc := range docs {
		pool.Submit(&ClassifyJob{Doc: doc, Classify: classify})
	}

	results := pool.Wait()

	classified := make([]*ClassifyResult, 0, len(results))
	for _, result := range results {
		classified = append(classified, result.(*ClassifyResult))
	}

	return classified
}
