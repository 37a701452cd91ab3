package handler

import (
	"time"

	"marketmod/internal/moderation/models"
	dErrors "marketmod/pkg/domain-errors"
)

type resultResponse struct {
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Action      string    `json:"action"`
	NewStatus   string    `json:"newStatus,omitempty"`
	ModeratorID int64     `json:"moderatorId"`
	Reason      string    `json:"reason,omitempty"`
	ModeratedAt time.Time `json:"moderatedAt,omitzero"`

	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
}

func fromResult(result models.ModerationResult) resultResponse {
	resp := resultResponse{
		ProductID:   int64(result.ItemID),
		ProductName: result.ItemName,
		Action:      string(result.Kind),
		NewStatus:   string(result.NewStatus),
		ModeratorID: int64(result.ActorID),
		Reason:      result.Reason,
		ModeratedAt: result.ModeratedAt,
	}
	if result.Err != nil {
		resp.Error = string(dErrors.CodeOf(result.Err))
		resp.ErrorDescription = dErrors.MessageOf(result.Err)
	}
	return resp
}

type actionResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	ModeratorID int64     `json:"moderatorId"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func fromActions(actions []*models.ModerationAction) []actionResponse {
	out := make([]actionResponse, 0, len(actions))
	for _, action := range actions {
		out = append(out, actionResponse{
			ID:          int64(action.ID),
			ProductID:   int64(action.ItemID),
			ModeratorID: int64(action.ActorID),
			Action:      string(action.Kind),
			Reason:      action.Reason,
			CreatedAt:   action.CreatedAt,
		})
	}
	return out
}

type auditResponse struct {
	ID          int64     `json:"id"`
	ActionID    int64     `json:"actionId"`
	ProductID   int64     `json:"productId"`
	ModeratorID int64     `json:"moderatorId"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	CreatedAt   time.Time `json:"createdAt"`
}

func fromAudits(audits []*models.ModerationAudit) []auditResponse {
	out := make([]auditResponse, 0, len(audits))
	for _, audit := range audits {
		out = append(out, auditResponse{
			ID:          int64(audit.ID),
			ActionID:    int64(audit.ActionID),
			ProductID:   int64(audit.ItemID),
			ModeratorID: int64(audit.ActorID),
			OldStatus:   string(audit.OldStatus),
			NewStatus:   string(audit.NewStatus),
			CreatedAt:   audit.CreatedAt,
		})
	}
	return out
}
