package events

import "time"

// Event is emitted from moderation logic after a decision settles. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Type        string    `json:"type"`
	ItemID      int64     `json:"productId"`
	ActorID     int64     `json:"moderatorId"`
	Action      string    `json:"action,omitempty"`
	NewStatus   string    `json:"newStatus,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
	Description string    `json:"description,omitempty"`
}

// Event types published by the moderation service.
const (
	TypeDecision            = "moderation.decision"
	TypeLedgerInconsistency = "moderation.ledger_inconsistency"
)
