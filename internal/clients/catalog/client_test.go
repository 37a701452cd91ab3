package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmod/internal/platform/config"
	"marketmod/pkg/domain"
	"marketmod/pkg/platform/sentinel"
)

func newTestClient(baseURL string) *Client {
	return New(config.CatalogConfig{BaseURL: baseURL, Timeout: time.Second})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("existing item", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/products/100", r.URL.Path)
			_ = json.NewEncoder(w).Encode(domain.Item{ID: 100, Name: "Lamp", Status: domain.StatusPending})
		}))
		defer srv.Close()

		item, err := newTestClient(srv.URL).GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, domain.ItemID(100), item.ID)
		assert.Equal(t, domain.StatusPending, item.Status)
	})

	t.Run("missing item maps to not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetByID(ctx, 100)
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approve posts conditional transition", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/products/100/status", r.URL.Path)

			var change statusChangeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&change))
			assert.Equal(t, domain.StatusApproved, change.Status)
			assert.Equal(t, domain.ActorID(42), change.ModeratorID)

			_ = json.NewEncoder(w).Encode(domain.Item{ID: 100, Name: "Lamp", Status: domain.StatusApproved})
		}))
		defer srv.Close()

		item, err := newTestClient(srv.URL).SetApproved(ctx, 100, 42)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, item.Status)
	})

	t.Run("reject carries reason", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var change statusChangeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&change))
			assert.Equal(t, domain.StatusRejected, change.Status)
			assert.Equal(t, "Invalid description", change.Reason)

			_ = json.NewEncoder(w).Encode(domain.Item{ID: 100, Status: domain.StatusRejected})
		}))
		defer srv.Close()

		item, err := newTestClient(srv.URL).SetRejected(ctx, 100, 42, "Invalid description")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, item.Status)
	})

	t.Run("conflict maps to invalid state", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).SetApproved(ctx, 100, 42)
		assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
	})

	t.Run("transport failure maps to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestClient(srv.URL).SetApproved(ctx, 100, 42)
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	})
}

func TestMockCatalogTransitionRule(t *testing.T) {
	ctx := context.Background()
	mock := NewMockCatalog(domain.Item{ID: 1, Name: "Lamp", Status: domain.StatusPending})

	item, err := mock.SetApproved(ctx, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, item.Status)

	_, err = mock.SetApproved(ctx, 1, 42)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
}
