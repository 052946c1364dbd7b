package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatewaysandbox/internal/logs"
)

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("healthz", func(t *testing.T) {
		h := NewHealthHandler(logs.Discard(), nil)
		c, rec := newContext(http.MethodGet, "/api/v1/healthz", "", nil)
		require.NoError(t, h.Healthz(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready", func(t *testing.T) {
		h := NewHealthHandler(logs.Discard(), map[string]Pinger{"database": up, "redis": up})
		c, rec := newContext(http.MethodGet, "/api/v1/readyz", "", nil)
		require.NoError(t, h.Readyz(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready","checks":{"database":"up","redis":"up"}}`, rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler(logs.Discard(), map[string]Pinger{"database": down, "redis": up})
		c, rec := newContext(http.MethodGet, "/api/v1/readyz", "", nil)
		require.NoError(t, h.Readyz(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"down"`)
	})
}

func TestIndex(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1", "", nil)
	require.NoError(t, Index(c))
	assert.Equal(t, "Hello, World!", rec.Body.String())
}
