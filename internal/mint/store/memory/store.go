package memory

import (
	"context"
	"sync"

	"mintgate/internal/mint/models"
	"mintgate/pkg/platform/sentinel"
)

// Store keeps the state in process. Transactions mutate a clone and swap it
// in on success.
type Store struct {
	mu    sync.RWMutex
	state *models.State
}

// New seeds the store with initial. A nil initial leaves it empty until Init.
func New(initial *models.State) *Store {
	s := &Store{}
	if initial != nil {
		s.state = initial.Clone()
		s.state.Normalize()
	}
	return s
}

// Init seeds the state if none is present.
func (s *Store) Init(_ context.Context, initial *models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		s.state = initial.Clone()
		s.state.Normalize()
	}
	return nil
}

func (s *Store) Load(_ context.Context) (*models.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.state.Clone(), nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(st *models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return sentinel.ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	draft := s.state.Clone()
	if err := fn(draft); err != nil {
		return err
	}
	s.state = draft
	return nil
}
