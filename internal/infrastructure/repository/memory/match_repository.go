// Package memory holds an in-memory match repository, used by tests and
// dry runs where writing season files is unwanted.
package memory

import (
	"context"
	"sync"

	"rugbydata/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	seasons map[string][]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{seasons: map[string][]match.Match{}}
}

func (r *MatchRepository) Load(_ context.Context, name string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.seasons[name]
	out := make([]match.Match, len(items))
	copy(out, items)
	return out, nil
}

func (r *MatchRepository) Save(_ context.Context, name string, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]match.Match, len(matches))
	copy(items, matches)
	r.seasons[name] = items
	return nil
}

var _ match.Repository = (*MatchRepository)(nil)
