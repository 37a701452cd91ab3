package service

import (
	"context"
	"iter"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketmod/internal/moderation/models"
	"marketmod/pkg/domain"
	dErrors "marketmod/pkg/domain-errors"
)

// BulkModerate applies one decision across many items. Authorization and
// input validation happen eagerly, before the sequence is returned; the
// per-item work runs lazily as the caller consumes it.
//
// Each item is an independent unit: a failure yields a result carrying the
// error and the sequence continues with the next item. Only cancellation of
// the caller's context stops the remaining items. The sequence is finite and
// single-use.
func (s *Service) BulkModerate(ctx context.Context, actor domain.ActorID, itemIDs []domain.ItemID, kind models.ActionKind, reason string) (iter.Seq[models.ModerationResult], error) {
	ctx, span := s.tracer.Start(ctx, "moderation.BulkModerate",
		trace.WithAttributes(
			attribute.Int("bulk.size", len(itemIDs)),
			attribute.String("bulk.action", string(kind)),
		))

	if !kind.Valid() {
		span.End()
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown action kind %q", string(kind))
	}
	if len(itemIDs) == 0 {
		span.End()
		return nil, dErrors.New(dErrors.CodeBadRequest, "productIds must not be empty")
	}
	for _, itemID := range itemIDs {
		if !itemID.Valid() {
			span.End()
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "product id %d must be positive", itemID)
		}
	}
	if err := s.authorize(ctx, actor); err != nil {
		span.End()
		return nil, err
	}

	// Bulk rejects without a reason get the documented placeholder rather
	// than failing every item.
	if kind == models.KindReject && strings.TrimSpace(reason) == "" {
		reason = models.DefaultRejectReason
	}

	s.metrics.ObserveBulkSize(len(itemIDs))

	return func(yield func(models.ModerationResult) bool) {
		defer span.End()
		for _, itemID := range itemIDs {
			if ctx.Err() != nil {
				return
			}
			result, err := s.moderateAs(ctx, actor, itemID, kind, reason)
			if err != nil {
				result = models.ModerationResult{ItemID: itemID, Kind: kind, ActorID: actor, Err: err}
			}
			if !yield(result) {
				return
			}
		}
	}, nil
}
