package memory

import (
	"context"
	"sync"

	"edu-games/internal/domain"
)

// LedgerStore keeps the ledger in process memory. Setting Unavailable makes every call
// fail with domain.ErrStoreUnavailable, which mimics disabled persistence.
type LedgerStore struct {
	mu          sync.Mutex
	ledger      *domain.PlayerLedger
	unavailable bool
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// SetUnavailable toggles simulated storage failure.
func (s *LedgerStore) SetUnavailable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = v
}

func (s *LedgerStore) Load(_ context.Context) (domain.PlayerLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return domain.PlayerLedger{}, domain.ErrStoreUnavailable
	}
	if s.ledger == nil {
		return domain.PlayerLedger{}, domain.ErrLedgerNotFound
	}
	return s.ledger.Clone(), nil
}

func (s *LedgerStore) Save(_ context.Context, ledger domain.PlayerLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return domain.ErrStoreUnavailable
	}
	stored := ledger.Clone()
	s.ledger = &stored
	return nil
}

func (s *LedgerStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return domain.ErrStoreUnavailable
	}
	s.ledger = nil
	return nil
}
