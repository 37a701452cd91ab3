// Package catalog talks to the product service: reading items, listing the
// moderation queue, and requesting status transitions. The product service
// owns item status and performs the conditional PENDING check itself, which
// makes it the single synchronization point for concurrent decisions on the
// same item.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"marketmod/internal/platform/config"
	"marketmod/pkg/domain"
	"marketmod/pkg/platform/sentinel"
)

// Catalog is the collaborator contract the orchestrator consumes.
type Catalog interface {
	GetByID(ctx context.Context, itemID domain.ItemID) (domain.Item, error)
	ListPending(ctx context.Context, page, pageSize int) (domain.PagedItems, error)
	SetApproved(ctx context.Context, itemID domain.ItemID, actorID domain.ActorID) (domain.Item, error)
	SetRejected(ctx context.Context, itemID domain.ItemID, actorID domain.ActorID, reason string) (domain.Item, error)
}

// Client is the HTTP Catalog backed by the product service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.CatalogConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) GetByID(ctx context.Context, itemID domain.ItemID) (domain.Item, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Item{}, fmt.Errorf("build get item request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item %d: %w", itemID, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var item domain.Item
		if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
			return domain.Item{}, fmt.Errorf("decode item response: %w", err)
		}
		return item, nil
	case http.StatusNotFound:
		return domain.Item{}, fmt.Errorf("item %d: %w", itemID, sentinel.ErrNotFound)
	default:
		return domain.Item{}, fmt.Errorf("product service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
}

func (c *Client) ListPending(ctx context.Context, page, pageSize int) (domain.PagedItems, error) {
	url := fmt.Sprintf("%s/api/products/pending?page=%d&pageSize=%d", c.baseURL, page, pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.PagedItems{}, fmt.Errorf("build list pending request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PagedItems{}, fmt.Errorf("list pending items: %w", sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PagedItems{}, fmt.Errorf("product service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var pageResp domain.PagedItems
	if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
		return domain.PagedItems{}, fmt.Errorf("decode pending page: %w", err)
	}
	return pageResp, nil
}

func (c *Client) SetApproved(ctx context.Context, itemID domain.ItemID, actorID domain.ActorID) (domain.Item, error) {
	return c.setStatus(ctx, itemID, statusChangeRequest{
		Status:      domain.StatusApproved,
		ModeratorID: actorID,
	})
}

func (c *Client) SetRejected(ctx context.Context, itemID domain.ItemID, actorID domain.ActorID, reason string) (domain.Item, error) {
	return c.setStatus(ctx, itemID, statusChangeRequest{
		Status:      domain.StatusRejected,
		ModeratorID: actorID,
		Reason:      reason,
	})
}

type statusChangeRequest struct {
	Status      domain.ItemStatus `json:"status"`
	ModeratorID domain.ActorID    `json:"moderatorId"`
	Reason      string            `json:"reason,omitempty"`
}

// setStatus asks the product service for a conditional transition. The
// service rejects the call with 409 when the item is no longer PENDING.
func (c *Client) setStatus(ctx context.Context, itemID domain.ItemID, change statusChangeRequest) (domain.Item, error) {
	payload, err := json.Marshal(change)
	if err != nil {
		return domain.Item{}, fmt.Errorf("marshal status change: %w", err)
	}

	url := fmt.Sprintf("%s/api/products/%d/status", c.baseURL, itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.Item{}, fmt.Errorf("build status change request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Item{}, fmt.Errorf("set item %d status: %w", itemID, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var item domain.Item
		if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
			return domain.Item{}, fmt.Errorf("decode status change response: %w", err)
		}
		return item, nil
	case http.StatusNotFound:
		return domain.Item{}, fmt.Errorf("item %d: %w", itemID, sentinel.ErrNotFound)
	case http.StatusConflict:
		return domain.Item{}, fmt.Errorf("item %d: %w", itemID, sentinel.ErrInvalidState)
	default:
		return domain.Item{}, fmt.Errorf("product service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
}
