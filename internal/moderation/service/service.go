// Package service orchestrates moderation decisions: authorization through
// the user service, conditional status transitions through the product
// service, and the two append-only ledgers. The product service owns item
// status and is the sole synchronization point for concurrent decisions; this
// package takes no cross-caller locks.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketmod/internal/clients/catalog"
	"marketmod/internal/clients/users"
	"marketmod/internal/moderation/events"
	"marketmod/internal/moderation/metrics"
	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
	dErrors "marketmod/pkg/domain-errors"
	"marketmod/pkg/platform/sentinel"
	"marketmod/pkg/requestcontext"
)

// ActionStore is the append-only decision ledger.
type ActionStore interface {
	Save(ctx context.Context, record *models.ModerationAction) (*models.ModerationAction, error)
	ListByActor(ctx context.Context, actorID domain.ActorID) ([]*models.ModerationAction, error)
}

// AuditStore is the append-only transition ledger.
type AuditStore interface {
	Save(ctx context.Context, record *models.ModerationAudit) (*models.ModerationAudit, error)
	ListByItem(ctx context.Context, itemID domain.ItemID) ([]*models.ModerationAudit, error)
}

// Publisher receives monitoring events after decisions settle. Publishing is
// fire-and-forget and never on the decision path.
type Publisher interface {
	Publish(event events.Event)
}

// Service is the moderation orchestrator.
type Service struct {
	roles     users.RoleResolver
	catalog   catalog.Catalog
	actions   ActionStore
	audits    AuditStore
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func NewService(roles users.RoleResolver, cat catalog.Catalog, actions ActionStore, audits AuditStore, opts ...Option) *Service {
	s := &Service{
		roles:   roles,
		catalog: cat,
		actions: actions,
		audits:  audits,
		logger:  slog.Default(),
		tracer:  otel.Tracer("marketmod/moderation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// authorize resolves the actor's roles and requires MODERATOR or ADMIN. A
// resolver failure is surfaced as NotFound or Unavailable, never conflated
// with Forbidden.
func (s *Service) authorize(ctx context.Context, actor domain.ActorID) error {
	if !actor.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "moderator id must be positive")
	}

	roles, err := s.roles.Resolve(ctx, actor)
	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "moderator not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "role resolution failed")
	}

	if slices.Contains(roles, domain.RoleModerator) || slices.Contains(roles, domain.RoleAdmin) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "moderator role required")
}

// ListPending returns a page of the moderation queue.
func (s *Service) ListPending(ctx context.Context, actor domain.ActorID, page, pageSize int) (domain.PagedItems, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.ListPending")
	defer span.End()

	if page < 1 || pageSize < 1 {
		return domain.PagedItems{}, dErrors.New(dErrors.CodeBadRequest, "page and pageSize must be positive")
	}
	if err := s.authorize(ctx, actor); err != nil {
		return domain.PagedItems{}, err
	}

	items, err := s.catalog.ListPending(ctx, page, pageSize)
	if err != nil {
		return domain.PagedItems{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "product service unavailable")
	}
	return items, nil
}

// GetPending returns a single item from the moderation queue.
func (s *Service) GetPending(ctx context.Context, actor domain.ActorID, itemID domain.ItemID) (domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.GetPending",
		trace.WithAttributes(attribute.Int64("product.id", int64(itemID))))
	defer span.End()

	if !itemID.Valid() {
		return domain.Item{}, dErrors.New(dErrors.CodeBadRequest, "product id must be positive")
	}
	if err := s.authorize(ctx, actor); err != nil {
		return domain.Item{}, err
	}
	return s.fetchItem(ctx, itemID)
}

// Approve moves a PENDING item to APPROVED and records the decision.
func (s *Service) Approve(ctx context.Context, actor domain.ActorID, itemID domain.ItemID) (models.ModerationResult, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.Approve",
		trace.WithAttributes(attribute.Int64("product.id", int64(itemID))))
	defer span.End()

	if !itemID.Valid() {
		return models.ModerationResult{}, dErrors.New(dErrors.CodeBadRequest, "product id must be positive")
	}
	if err := s.authorize(ctx, actor); err != nil {
		return models.ModerationResult{}, err
	}
	return s.moderateAs(ctx, actor, itemID, models.KindApprove, "")
}

// Reject moves a PENDING item to REJECTED. The reason is required.
func (s *Service) Reject(ctx context.Context, actor domain.ActorID, itemID domain.ItemID, reason string) (models.ModerationResult, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.Reject",
		trace.WithAttributes(attribute.Int64("product.id", int64(itemID))))
	defer span.End()

	// Validation before any remote call.
	if !itemID.Valid() {
		return models.ModerationResult{}, dErrors.New(dErrors.CodeBadRequest, "product id must be positive")
	}
	if _, err := models.NewAction(itemID, actor, models.KindReject, reason, requestcontext.Now(ctx)); err != nil {
		return models.ModerationResult{}, err
	}
	if err := s.authorize(ctx, actor); err != nil {
		return models.ModerationResult{}, err
	}
	return s.moderateAs(ctx, actor, itemID, models.KindReject, reason)
}

// History returns all decisions by one actor, newest first. An actor with no
// decisions gets an empty slice, not an error.
func (s *Service) History(ctx context.Context, actor domain.ActorID) ([]*models.ModerationAction, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.History")
	defer span.End()

	if !actor.Valid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "moderator id must be positive")
	}
	records, err := s.actions.ListByActor(ctx, actor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read moderation history")
	}
	return records, nil
}

// ItemHistory returns all audited transitions for one item, newest first.
// Read-only history is public: no actor is required.
func (s *Service) ItemHistory(ctx context.Context, itemID domain.ItemID) ([]*models.ModerationAudit, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.ItemHistory",
		trace.WithAttributes(attribute.Int64("product.id", int64(itemID))))
	defer span.End()

	if !itemID.Valid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "product id must be positive")
	}
	records, err := s.audits.ListByItem(ctx, itemID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read item history")
	}
	return records, nil
}

func (s *Service) fetchItem(ctx context.Context, itemID domain.ItemID) (domain.Item, error) {
	item, err := s.catalog.GetByID(ctx, itemID)
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return domain.Item{}, dErrors.Wrap(err, dErrors.CodeNotFound, "product not found")
	default:
		return domain.Item{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "product service unavailable")
	}
}

// moderateAs performs one already-authorized decision: status pre-check,
// conditional catalog transition, then the two ledger writes in order. The
// action write happens-before the audit write.
func (s *Service) moderateAs(ctx context.Context, actor domain.ActorID, itemID domain.ItemID, kind models.ActionKind, reason string) (models.ModerationResult, error) {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return models.ModerationResult{}, err
	}
	if item.Status != domain.StatusPending {
		s.metrics.IncrementDecision(string(kind), "invalid_state")
		return models.ModerationResult{}, dErrors.Newf(dErrors.CodeConflict,
			"product is %s, only PENDING products can be moderated", item.Status)
	}

	mutated, err := s.mutateStatus(ctx, actor, itemID, kind, reason)
	if err != nil {
		return models.ModerationResult{}, err
	}

	record, err := models.NewAction(itemID, actor, kind, reason, requestcontext.Now(ctx))
	if err != nil {
		return models.ModerationResult{}, err
	}
	action, err := s.actions.Save(ctx, record)
	if err != nil {
		s.metrics.IncrementDecision(string(kind), "error")
		return models.ModerationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "record moderation action")
	}

	_, err = s.audits.Save(ctx, &models.ModerationAudit{
		ActionID:  action.ID,
		ItemID:    itemID,
		ActorID:   actor,
		OldStatus: domain.StatusPending,
		NewStatus: mutated.Status,
		Origin:    requestcontext.ClientIP(ctx),
		CreatedAt: action.CreatedAt,
	})
	if err != nil {
		// The catalog transition and the action row are already committed.
		// There is no rollback: keep the action, flag the gap loudly.
		s.metrics.IncrementLedgerInconsistency()
		s.metrics.IncrementDecision(string(kind), "inconsistent")
		s.logger.Error("audit write failed after action write",
			"product_id", itemID,
			"action_id", action.ID,
			"error", err)
		s.publish(events.Event{
			Type:        events.TypeLedgerInconsistency,
			ItemID:      int64(itemID),
			ActorID:     int64(actor),
			Action:      string(kind),
			NewStatus:   string(mutated.Status),
			OccurredAt:  action.CreatedAt,
			Description: "action recorded without audit",
		})
		return models.ModerationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "moderation ledger inconsistent")
	}

	s.metrics.IncrementDecision(string(kind), "ok")
	s.publish(events.Event{
		Type:       events.TypeDecision,
		ItemID:     int64(itemID),
		ActorID:    int64(actor),
		Action:     string(kind),
		NewStatus:  string(mutated.Status),
		Reason:     action.Reason,
		OccurredAt: action.CreatedAt,
	})
	s.logger.Info("moderation decision recorded",
		"product_id", itemID,
		"moderator_id", actor,
		"action", kind,
		"new_status", mutated.Status)

	return models.ModerationResult{
		ItemID:      itemID,
		ItemName:    mutated.Name,
		Kind:        kind,
		NewStatus:   mutated.Status,
		ActorID:     actor,
		Reason:      action.Reason,
		ModeratedAt: action.CreatedAt,
	}, nil
}

// mutateStatus asks the product service for the conditional transition. A
// race lost to another moderator comes back as ErrInvalidState and maps to
// Conflict, the same class the local pre-check produces.
func (s *Service) mutateStatus(ctx context.Context, actor domain.ActorID, itemID domain.ItemID, kind models.ActionKind, reason string) (domain.Item, error) {
	var (
		item domain.Item
		err  error
	)
	if kind == models.KindReject {
		item, err = s.catalog.SetRejected(ctx, itemID, actor, reason)
	} else {
		item, err = s.catalog.SetApproved(ctx, itemID, actor)
	}

	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return domain.Item{}, dErrors.Wrap(err, dErrors.CodeNotFound, "product not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		s.metrics.IncrementDecision(string(kind), "invalid_state")
		return domain.Item{}, dErrors.Wrap(err, dErrors.CodeConflict, "product already moderated")
	default:
		return domain.Item{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "product service unavailable")
	}
}

func (s *Service) publish(event events.Event) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
