package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"marketmod/pkg/domain"
	dErrors "marketmod/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; moderation payloads are tiny.
const maxBodyBytes = 1 << 20

type rejectRequest struct {
	Reason string `json:"reason"`
}

type bulkRequest struct {
	ProductIDs []int64 `json:"productIds"`
	Action     string  `json:"action"`
	Reason     string  `json:"reason"`
}

func (r bulkRequest) itemIDs() []domain.ItemID {
	ids := make([]domain.ItemID, len(r.ProductIDs))
	for i, raw := range r.ProductIDs {
		ids[i] = domain.ItemID(raw)
	}
	return ids
}

func decodeBody[T any](r *http.Request) (T, error) {
	var body T

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		return body, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body")
	}
	return body, nil
}
