package action

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
)

func TestMemoryStoreSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	now := time.Now()

	record, err := models.NewAction(100, 42, models.KindApprove, "", now)
	require.NoError(t, err)

	saved, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionID(1), saved.ID)

	// The input record stays untouched; the ledger assigns IDs.
	assert.Equal(t, domain.ActionID(0), record.ID)

	second, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionID(2), second.ID)
}

func TestMemoryStoreListByActor(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	base := time.Now()

	for i, actor := range []domain.ActorID{42, 42, 7} {
		record, err := models.NewAction(domain.ItemID(100+i), actor, models.KindReject, "spam", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		_, err = store.Save(ctx, record)
		require.NoError(t, err)
	}

	listed, err := store.ListByActor(ctx, 42)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// Newest first.
	assert.Equal(t, domain.ItemID(101), listed[0].ItemID)
	assert.Equal(t, domain.ItemID(100), listed[1].ItemID)

	empty, err := store.ListByActor(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
