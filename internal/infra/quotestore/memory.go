package quotestore

import (
	"context"
	"log/slog"
	"sync"

	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/clock"

	"github.com/google/uuid"
)

// MemoryStore keeps quotes in process. Quotes are lost on restart and are not
// shared between instances; a lost quote only means "now" is re-evaluated at
// submit time.
type MemoryStore struct {
	mu     sync.Mutex
	quotes map[uuid.UUID]refund.Quote
	clock  clock.Clock
	logger *slog.Logger
}

func NewMemoryStore(clk clock.Clock, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		quotes: make(map[uuid.UUID]refund.Quote),
		clock:  clk,
		logger: logger,
	}
}

func (s *MemoryStore) Save(_ context.Context, q refund.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweep()
	if q.Expired(now) {
		return nil
	}
	s.quotes[q.ID] = q
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (refund.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[id]
	if !ok || q.Expired(s.clock.Now()) {
		delete(s.quotes, id)
		return refund.Quote{}, infra.WrapErr(s.logger, infra.KindNotFound, "quote not found", nil)
	}
	return q, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.quotes, id)
	return nil
}

// sweep drops expired quotes; callers hold mu.
func (s *MemoryStore) sweep() {
	now := s.clock.Now()
	for id, q := range s.quotes {
		if q.Expired(now) {
			delete(s.quotes, id)
		}
	}
}
