package audit

import (
	"context"
	"sort"
	"sync"

	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
)

// MemoryStore is the in-memory audit ledger for tests and dev mode.
// Append-only: no update or delete is exposed.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  domain.AuditID
	records []*models.ModerationAudit

	// FailNext makes the next Save return the given error, used to exercise
	// the ledger-inconsistency path.
	FailNext error
}

func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Save(_ context.Context, record *models.ModerationAudit) (*models.ModerationAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return nil, err
	}

	saved := *record
	saved.ID = s.nextID
	s.nextID++

	s.records = append(s.records, &saved)

	out := saved
	return &out, nil
}

func (s *MemoryStore) ListByItem(_ context.Context, itemID domain.ItemID) ([]*models.ModerationAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ModerationAudit
	for _, record := range s.records {
		if record.ItemID == itemID {
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

// Count reports the total number of recorded audits. Test helper.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
