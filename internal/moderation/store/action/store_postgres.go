package action

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
)

// PostgresStore persists the action ledger. Append-only by construction:
// only INSERT and SELECT are issued against moderation_actions.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.ModerationAction) (*models.ModerationAction, error) {
	query := `
		INSERT INTO moderation_actions (product_id, moderator_id, action, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var reason sql.NullString
	if record.Reason != "" {
		reason = sql.NullString{String: record.Reason, Valid: true}
	}

	saved := *record
	err := s.db.QueryRowContext(ctx, query,
		int64(record.ItemID),
		int64(record.ActorID),
		string(record.Kind),
		reason,
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("insert moderation action: %w", err)
	}
	return &saved, nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actorID domain.ActorID) ([]*models.ModerationAction, error) {
	query, args, err := sq.
		Select("id", "product_id", "moderator_id", "action", "reason", "created_at", "updated_at").
		From("moderation_actions").
		Where(sq.Eq{"moderator_id": int64(actorID)}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build actions query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query moderation actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

func scanActions(rows *sql.Rows) ([]*models.ModerationAction, error) {
	var out []*models.ModerationAction

	for rows.Next() {
		var (
			record models.ModerationAction
			reason sql.NullString
		)
		err := rows.Scan(
			&record.ID,
			&record.ItemID,
			&record.ActorID,
			&record.Kind,
			&reason,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan moderation action: %w", err)
		}
		record.Reason = reason.String
		out = append(out, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation actions: %w", err)
	}
	return out, nil
}
