//go:build integration

package action_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"marketmod/internal/moderation/models"
	"marketmod/internal/moderation/store/action"
	"marketmod/pkg/domain"
	"marketmod/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *action.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = action.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "moderation_audit", "moderation_actions")
	s.Require().NoError(err)
}

func newTestAction(itemID, actorID int64, kind models.ActionKind, reason string, at time.Time) *models.ModerationAction {
	record, err := models.NewAction(
		domain.ItemID(itemID), domain.ActorID(actorID), kind, reason, at)
	if err != nil {
		panic(err)
	}
	return record
}

func (s *PostgresStoreSuite) TestSaveAssignsIdentifier() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	saved, err := s.store.Save(ctx, newTestAction(100, 42, models.KindReject, "spam", now))
	s.Require().NoError(err)
	s.Positive(int64(saved.ID))
	s.Equal("spam", saved.Reason)

	second, err := s.store.Save(ctx, newTestAction(101, 42, models.KindApprove, "", now))
	s.Require().NoError(err)
	s.Greater(int64(second.ID), int64(saved.ID))
}

func (s *PostgresStoreSuite) TestListByActorNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i, itemID := range []int64{100, 101, 102} {
		_, err := s.store.Save(ctx, newTestAction(itemID, 42, models.KindApprove, "",
			base.Add(time.Duration(i)*time.Second)))
		s.Require().NoError(err)
	}
	_, err := s.store.Save(ctx, newTestAction(200, 99, models.KindApprove, "", base))
	s.Require().NoError(err)

	records, err := s.store.ListByActor(ctx, 42)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal(domain.ItemID(102), records[0].ItemID)
	s.Equal(domain.ItemID(101), records[1].ItemID)
	s.Equal(domain.ItemID(100), records[2].ItemID)
}

func (s *PostgresStoreSuite) TestListByActorEmpty() {
	records, err := s.store.ListByActor(context.Background(), 42)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *PostgresStoreSuite) TestApproveReasonStoredAsNull() {
	ctx := context.Background()

	saved, err := s.store.Save(ctx, newTestAction(100, 42, models.KindApprove, "", time.Now().UTC()))
	s.Require().NoError(err)

	var reason *string
	err = s.postgres.DB.QueryRowContext(ctx,
		"SELECT reason FROM moderation_actions WHERE id = $1", int64(saved.ID)).Scan(&reason)
	s.Require().NoError(err)
	s.Nil(reason)
}
