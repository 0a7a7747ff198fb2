package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckModuleAccessAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tenants/acme/modules/hiring/access", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"allowed": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	allowed, err := c.CheckModuleAccess(context.Background(), "acme", "hiring")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckModuleAccessDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"allowed": false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	allowed, err := c.CheckModuleAccess(context.Background(), "acme", "hiring")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheckModuleAccessForbiddenIsDenialNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	allowed, err := c.CheckModuleAccess(context.Background(), "acme", "hiring")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheckModuleAccessServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.CheckModuleAccess(context.Background(), "acme", "hiring")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
