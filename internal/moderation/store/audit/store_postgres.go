package audit

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
)

// PostgresStore persists the audit ledger. Append-only by construction:
// only INSERT and SELECT are issued against moderation_audit.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.ModerationAudit) (*models.ModerationAudit, error) {
	query := `
		INSERT INTO moderation_audit (action_id, product_id, moderator_id, old_status, new_status, origin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var origin sql.NullString
	if record.Origin != "" {
		origin = sql.NullString{String: record.Origin, Valid: true}
	}

	saved := *record
	err := s.db.QueryRowContext(ctx, query,
		int64(record.ActionID),
		int64(record.ItemID),
		int64(record.ActorID),
		string(record.OldStatus),
		string(record.NewStatus),
		origin,
		record.CreatedAt,
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("insert moderation audit: %w", err)
	}
	return &saved, nil
}

func (s *PostgresStore) ListByItem(ctx context.Context, itemID domain.ItemID) ([]*models.ModerationAudit, error) {
	query, args, err := sq.
		Select("id", "action_id", "product_id", "moderator_id", "old_status", "new_status", "origin", "created_at").
		From("moderation_audit").
		Where(sq.Eq{"product_id": int64(itemID)}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audits query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query moderation audits: %w", err)
	}
	defer rows.Close()

	return scanAudits(rows)
}

func scanAudits(rows *sql.Rows) ([]*models.ModerationAudit, error) {
	var out []*models.ModerationAudit

	for rows.Next() {
		var (
			record models.ModerationAudit
			origin sql.NullString
		)
		err := rows.Scan(
			&record.ID,
			&record.ActionID,
			&record.ItemID,
			&record.ActorID,
			&record.OldStatus,
			&record.NewStatus,
			&origin,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan moderation audit: %w", err)
		}
		record.Origin = origin.String
		out = append(out, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation audits: %w", err)
	}
	return out, nil
}
