// Package models holds the moderation ledger records and result shapes.
package models

import (
	"strings"
	"time"

	"marketmod/pkg/domain"
	dErrors "marketmod/pkg/domain-errors"
)

// ActionKind is a moderator's decision on a pending item.
type ActionKind string

const (
	KindApprove ActionKind = "APPROVE"
	KindReject  ActionKind = "REJECT"
)

// Valid reports whether the kind is a known decision.
func (k ActionKind) Valid() bool {
	return k == KindApprove || k == KindReject
}

// TargetStatus returns the terminal item status this decision produces.
func (k ActionKind) TargetStatus() domain.ItemStatus {
	if k == KindReject {
		return domain.StatusRejected
	}
	return domain.StatusApproved
}

// DefaultRejectReason is substituted when a bulk REJECT arrives without a
// reason. Documented behavior: the placeholder is persisted, never a blank.
const DefaultRejectReason = "Rejected by moderator"

// ModerationAction is the append-only record of one decision. Created exactly
// once when a decision completes; never mutated or deleted afterward.
type ModerationAction struct {
	ID        domain.ActionID
	ItemID    domain.ItemID
	ActorID   domain.ActorID
	Kind      ActionKind
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAction builds an unsaved action and enforces the reason invariant:
// a reason is required for REJECT and not recorded for APPROVE.
func NewAction(itemID domain.ItemID, actorID domain.ActorID, kind ActionKind, reason string, now time.Time) (*ModerationAction, error) {
	if !kind.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown action kind %q", string(kind))
	}

	reason = strings.TrimSpace(reason)
	if kind == KindReject && reason == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "reason is required to reject an item")
	}
	if kind == KindApprove {
		reason = ""
	}

	return &ModerationAction{
		ItemID:    itemID,
		ActorID:   actorID,
		Kind:      kind,
		Reason:    reason,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ModerationAudit records one status transition, linked to exactly one
// action. Written in the same logical operation as its action; never mutated
// or deleted.
type ModerationAudit struct {
	ID        domain.AuditID
	ActionID  domain.ActionID
	ItemID    domain.ItemID
	ActorID   domain.ActorID
	OldStatus domain.ItemStatus
	NewStatus domain.ItemStatus
	Origin    string
	CreatedAt time.Time
}

// ModerationResult is what one decision returns to the caller. In bulk
// sequences a failed item yields a result whose Err is set; the remaining
// fields then describe only what is known (at least ItemID).
type ModerationResult struct {
	ItemID      domain.ItemID
	ItemName    string
	Kind        ActionKind
	NewStatus   domain.ItemStatus
	ActorID     domain.ActorID
	Reason      string
	ModeratedAt time.Time
	Err         error
}
