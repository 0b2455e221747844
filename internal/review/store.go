package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"predscan/internal/model"
)

// Store persists decisions for one subject across review runs. A terminal
// decision is immutable: finalizing the same identifier again is a no-op
// unless re-review is explicitly requested, in which case the prior
// decision is replaced, never merged.
type Store struct {
	path      string
	mu        sync.Mutex
	decisions map[string]model.Decision
}

// NewStore opens (or creates) the decision store at path, loading any prior
// decisions.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:      path,
		decisions: make(map[string]model.Decision),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read decision store: %w", err)
	}

	if err := json.Unmarshal(data, &s.decisions); err != nil {
		return nil, fmt.Errorf("parse decision store %s: %w", path, err)
	}

	return s, nil
}

// Get returns the stored decision for an identifier, if any.
func (s *Store) Get(identifier string) (model.Decision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decisions[identifier]
	return d, ok
}

// Finalize records a decision. When a terminal decision already exists and
// reReview is false, the prior decision is returned unchanged and stored is
// false. Pending decisions are always replaceable.
func (s *Store) Finalize(d model.Decision, reReview bool) (model.Decision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.decisions[d.Identifier]; ok && prior.Outcome.Terminal() && !reReview {
		return prior, false
	}

	s.decisions[d.Identifier] = d
	return d, true
}

// All returns every stored decision sorted by identifier.
func (s *Store) All() []model.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.Decision, 0, len(s.decisions))
	for _, d := range s.decisions {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Identifier < all[j].Identifier })
	return all
}

// Save writes the store to disk atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.decisions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal decisions: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write decision store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace decision store: %w", err)
	}

	return nil
}
