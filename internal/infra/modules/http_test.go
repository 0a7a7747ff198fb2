package modules

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

func TestCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"healthy": true})
	}))
	defer srv.Close()

	h := NewHTTPHandler("learning", srv.URL)
	health, err := h.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, health.Healthy)
}

func TestHandleTrigger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/triggers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "acme", body["tenant_id"])
		require.Contains(t, body, "context")

		json.NewEncoder(w).Encode(map[string]any{"id": "lp-1", "name": "Cloud Path"})
	}))
	defer srv.Close()

	h := NewHTTPHandler("learning", srv.URL)
	trg := &domain.Trigger{ID: "t1", TenantID: "acme", Type: domain.TypePerformancePerfectLXP}
	artifact, err := h.HandleTrigger(context.Background(), "acme", domain.TriggerContext{Trigger: trg, Score: 1.0})
	require.NoError(t, err)
	assert.Equal(t, "lp-1", artifact["id"])
	assert.Equal(t, "Cloud Path", artifact["name"])
}

func TestHandleTriggerNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	h := NewHTTPHandler("hiring", srv.URL)
	_, err := h.HandleTrigger(context.Background(), "acme", domain.TriggerContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
	assert.Contains(t, err.Error(), "hiring module")
}

func TestInitializeSendsConfig(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/initialize", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewHTTPHandler("learning", srv.URL)
	err := h.Initialize(context.Background(), map[string]any{"perfectThreshold": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got["perfectThreshold"])
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	h := NewHTTPHandler("learning", srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.GetStatus(ctx)
	require.Error(t, err)
}
