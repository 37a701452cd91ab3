package action

import (
	"context"
	"sort"
	"sync"

	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
)

// MemoryStore is the in-memory action ledger for tests and dev mode.
// Append-only: no update or delete is exposed.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  domain.ActionID
	records []*models.ModerationAction
}

func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Save(_ context.Context, record *models.ModerationAction) (*models.ModerationAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *record
	saved.ID = s.nextID
	s.nextID++

	s.records = append(s.records, &saved)

	out := saved
	return &out, nil
}

func (s *MemoryStore) ListByActor(_ context.Context, actorID domain.ActorID) ([]*models.ModerationAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ModerationAction
	for _, record := range s.records {
		if record.ActorID == actorID {
			copied := *record
			out = append(out, &copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Count reports the total number of recorded actions. Test helper.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
