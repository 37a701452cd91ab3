// Package handler exposes the moderation workflow over HTTP. Routes mirror
// the marketplace's public contract: moderator identity arrives as a bearer
// token or the moderatorId query parameter, item history is a public read.
package handler

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"marketmod/internal/moderation/models"
	"marketmod/internal/platform/middleware"
	"marketmod/internal/throttle"
	"marketmod/pkg/domain"
	dErrors "marketmod/pkg/domain-errors"
	"marketmod/pkg/platform/httputil"
	"marketmod/pkg/requestcontext"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service defines the moderation operations the handler exposes.
type Service interface {
	ListPending(ctx context.Context, actor domain.ActorID, page, pageSize int) (domain.PagedItems, error)
	GetPending(ctx context.Context, actor domain.ActorID, itemID domain.ItemID) (domain.Item, error)
	Approve(ctx context.Context, actor domain.ActorID, itemID domain.ItemID) (models.ModerationResult, error)
	Reject(ctx context.Context, actor domain.ActorID, itemID domain.ItemID, reason string) (models.ModerationResult, error)
	BulkModerate(ctx context.Context, actor domain.ActorID, itemIDs []domain.ItemID, kind models.ActionKind, reason string) (iter.Seq[models.ModerationResult], error)
	History(ctx context.Context, actor domain.ActorID) ([]*models.ModerationAction, error)
	ItemHistory(ctx context.Context, itemID domain.ItemID) ([]*models.ModerationAudit, error)
}

// Handler wires moderation endpoints to the orchestrator.
type Handler struct {
	service   Service
	validator middleware.TokenValidator
	limiter   throttle.Limiter
	logger    *slog.Logger
}

func New(service Service, validator middleware.TokenValidator, limiter throttle.Limiter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   service,
		validator: validator,
		limiter:   limiter,
		logger:    logger,
	}
}

// Register mounts the moderation endpoints. Item history stays outside the
// actor requirement; write endpoints additionally pass the write throttle.
func (h *Handler) Register(r chi.Router) {
	r.Get("/products/{productID}/history", h.HandleItemHistory)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireActor(h.validator, h.logger))

		r.Get("/products", h.HandleListPending)
		r.Get("/products/{productID}", h.HandleGetPending)
		r.Get("/history", h.HandleHistory)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WriteThrottle(h.limiter, h.logger))

			r.Post("/products/{productID}/approve", h.HandleApprove)
			r.Post("/products/{productID}/reject", h.HandleReject)
			r.Post("/bulk", h.HandleBulk)
		})
	})
}

// HandleListPending handles GET /products requests.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, err := h.service.ListPending(ctx, requestcontext.ActorID(ctx), page, pageSize)
	if err != nil {
		h.logError(ctx, "list pending products", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

// HandleGetPending handles GET /products/{productID} requests.
func (h *Handler) HandleGetPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := pathItemID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	item, err := h.service.GetPending(ctx, requestcontext.ActorID(ctx), itemID)
	if err != nil {
		h.logError(ctx, "get product", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

// HandleApprove handles POST /products/{productID}/approve requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	itemID, err := pathItemID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actor := requestcontext.ActorID(ctx)

	result, err := h.service.Approve(ctx, actor, itemID)
	if err != nil {
		h.logError(ctx, "approve product", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "product approved",
		"request_id", requestcontext.RequestID(ctx),
		"product_id", itemID,
		"moderator_id", actor,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromResult(result))
}

// HandleReject handles POST /products/{productID}/reject requests.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	itemID, err := pathItemID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actor := requestcontext.ActorID(ctx)

	req, err := decodeBody[rejectRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Reject(ctx, actor, itemID, req.Reason)
	if err != nil {
		h.logError(ctx, "reject product", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "product rejected",
		"request_id", requestcontext.RequestID(ctx),
		"product_id", itemID,
		"moderator_id", actor,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromResult(result))
}

// HandleBulk handles POST /bulk requests. The response is one entry per
// requested item, in request order, failed items carrying an error field.
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	actor := requestcontext.ActorID(ctx)

	req, err := decodeBody[bulkRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	seq, err := h.service.BulkModerate(ctx, actor, req.itemIDs(), models.ActionKind(req.Action), req.Reason)
	if err != nil {
		h.logError(ctx, "bulk moderate", err)
		httputil.WriteError(w, err)
		return
	}

	responses := make([]resultResponse, 0, len(req.ProductIDs))
	failed := 0
	for result := range seq {
		if result.Err != nil {
			failed++
		}
		responses = append(responses, fromResult(result))
	}

	h.logger.InfoContext(ctx, "bulk moderation finished",
		"request_id", requestcontext.RequestID(ctx),
		"moderator_id", actor,
		"action", req.Action,
		"requested", len(req.ProductIDs),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, responses)
}

// HandleHistory handles GET /history requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actions, err := h.service.History(ctx, requestcontext.ActorID(ctx))
	if err != nil {
		h.logError(ctx, "read moderator history", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromActions(actions))
}

// HandleItemHistory handles GET /products/{productID}/history requests.
func (h *Handler) HandleItemHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := pathItemID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	audits, err := h.service.ItemHistory(ctx, itemID)
	if err != nil {
		h.logError(ctx, "read product history", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAudits(audits))
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

func pathItemID(r *http.Request) (domain.ItemID, error) {
	raw := chi.URLParam(r, "productID")
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid product id %q", raw)
	}
	return domain.ItemID(parsed), nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s %q", name, raw)
	}
	return parsed, nil
}
