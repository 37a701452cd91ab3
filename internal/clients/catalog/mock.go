package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketmod/pkg/domain"
	"marketmod/pkg/platform/sentinel"
)

// MockCatalog is a deterministic in-memory Catalog for tests and dev wiring.
// It enforces the same conditional transition rule the product service does:
// only PENDING items can change status.
type MockCatalog struct {
	mu      sync.Mutex
	items   map[domain.ItemID]domain.Item
	Latency time.Duration
	Err     error
}

func NewMockCatalog(items ...domain.Item) *MockCatalog {
	m := &MockCatalog{items: make(map[domain.ItemID]domain.Item)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

// Put inserts or replaces an item.
func (m *MockCatalog) Put(item domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *MockCatalog) wait(ctx context.Context) error {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.Err
}

func (m *MockCatalog) GetByID(ctx context.Context, itemID domain.ItemID) (domain.Item, error) {
	if err := m.wait(ctx); err != nil {
		return domain.Item{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %d: %w", itemID, sentinel.ErrNotFound)
	}
	return item, nil
}

func (m *MockCatalog) ListPending(ctx context.Context, page, pageSize int) (domain.PagedItems, error) {
	if err := m.wait(ctx); err != nil {
		return domain.PagedItems{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []domain.Item
	for _, item := range m.items {
		if item.Status == domain.StatusPending {
			pending = append(pending, item)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	start := (page - 1) * pageSize
	if start > len(pending) {
		start = len(pending)
	}
	end := start + pageSize
	if end > len(pending) {
		end = len(pending)
	}

	return domain.PagedItems{
		Items:    pending[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    int64(len(pending)),
	}, nil
}

func (m *MockCatalog) SetApproved(ctx context.Context, itemID domain.ItemID, _ domain.ActorID) (domain.Item, error) {
	return m.transition(ctx, itemID, domain.StatusApproved)
}

func (m *MockCatalog) SetRejected(ctx context.Context, itemID domain.ItemID, _ domain.ActorID, _ string) (domain.Item, error) {
	return m.transition(ctx, itemID, domain.StatusRejected)
}

func (m *MockCatalog) transition(ctx context.Context, itemID domain.ItemID, target domain.ItemStatus) (domain.Item, error) {
	if err := m.wait(ctx); err != nil {
		return domain.Item{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %d: %w", itemID, sentinel.ErrNotFound)
	}
	if item.Status != domain.StatusPending {
		return domain.Item{}, fmt.Errorf("item %d is %s: %w", itemID, item.Status, sentinel.ErrInvalidState)
	}

	item.Status = target
	m.items[itemID] = item
	return item, nil
}
