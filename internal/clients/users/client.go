// Package users talks to the user service to resolve an actor's role set.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"marketmod/internal/platform/config"
	"marketmod/pkg/domain"
	"marketmod/pkg/platform/sentinel"
)

// RoleResolver resolves an actor's role set. The orchestrator depends on this
// interface so tests and wiring can swap implementations.
type RoleResolver interface {
	Resolve(ctx context.Context, actorID domain.ActorID) ([]string, error)
}

// Client is the HTTP RoleResolver backed by the user service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.UsersConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type rolesResponse struct {
	Roles []string `json:"roles"`
}

// Resolve fetches the actor's roles. An unknown actor maps to
// sentinel.ErrNotFound; transport failures and 5xx responses map to
// sentinel.ErrUnavailable so the caller can tell "no such actor" from
// "could not ask".
func (c *Client) Resolve(ctx context.Context, actorID domain.ActorID) ([]string, error) {
	url := fmt.Sprintf("%s/api/users/%d/roles", c.baseURL, actorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build roles request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve roles for actor %d: %w", actorID, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body rolesResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode roles response: %w", err)
		}
		return body.Roles, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("actor %d: %w", actorID, sentinel.ErrNotFound)
	default:
		return nil, fmt.Errorf("user service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
}
