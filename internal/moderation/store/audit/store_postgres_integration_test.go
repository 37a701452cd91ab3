//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"marketmod/internal/moderation/models"
	actionstore "marketmod/internal/moderation/store/action"
	"marketmod/internal/moderation/store/audit"
	"marketmod/pkg/domain"
	"marketmod/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	actions  *actionstore.PostgresStore
	store    *audit.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.actions = actionstore.NewPostgres(s.postgres.DB)
	s.store = audit.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "moderation_audit", "moderation_actions")
	s.Require().NoError(err)
}

// saveAction creates the parent action row the audit's foreign key needs.
func (s *PostgresStoreSuite) saveAction(itemID int64, at time.Time) *models.ModerationAction {
	record, err := models.NewAction(domain.ItemID(itemID), 42, models.KindApprove, "", at)
	s.Require().NoError(err)

	saved, err := s.actions.Save(context.Background(), record)
	s.Require().NoError(err)
	return saved
}

func (s *PostgresStoreSuite) newAudit(action *models.ModerationAction, newStatus domain.ItemStatus) *models.ModerationAudit {
	return &models.ModerationAudit{
		ActionID:  action.ID,
		ItemID:    action.ItemID,
		ActorID:   action.ActorID,
		OldStatus: domain.StatusPending,
		NewStatus: newStatus,
		Origin:    "203.0.113.9",
		CreatedAt: action.CreatedAt,
	}
}

func (s *PostgresStoreSuite) TestSaveLinksToAction() {
	ctx := context.Background()
	action := s.saveAction(100, time.Now().UTC().Truncate(time.Microsecond))

	saved, err := s.store.Save(ctx, s.newAudit(action, domain.StatusApproved))
	s.Require().NoError(err)
	s.Positive(int64(saved.ID))
	s.Equal(action.ID, saved.ActionID)
	s.Equal(domain.StatusPending, saved.OldStatus)
	s.Equal(domain.StatusApproved, saved.NewStatus)
}

func (s *PostgresStoreSuite) TestListByItemNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.saveAction(100, base)
	second := s.saveAction(100, base.Add(time.Second))
	other := s.saveAction(200, base)

	_, err := s.store.Save(ctx, s.newAudit(first, domain.StatusRejected))
	s.Require().NoError(err)
	_, err = s.store.Save(ctx, s.newAudit(second, domain.StatusApproved))
	s.Require().NoError(err)
	_, err = s.store.Save(ctx, s.newAudit(other, domain.StatusApproved))
	s.Require().NoError(err)

	records, err := s.store.ListByItem(ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(second.ID, records[0].ActionID)
	s.Equal(first.ID, records[1].ActionID)
}

func (s *PostgresStoreSuite) TestListByItemEmpty() {
	records, err := s.store.ListByItem(context.Background(), 100)
	s.Require().NoError(err)
	s.Empty(records)
}
