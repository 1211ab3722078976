package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-admin-api/internal/service"
)

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func newSystemRouter(checks map[string]Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	h := NewMetricsHandler(metrics, checks, nil)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
	return r
}

func TestMetricsHandlerReady(t *testing.T) {
	r := newSystemRouter(map[string]Pinger{"database": pingerStub{}, "cache": pingerStub{}})

	w := serve(r, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
}

func TestMetricsHandlerReadyDegraded(t *testing.T) {
	r := newSystemRouter(map[string]Pinger{"database": pingerStub{err: errors.New("refused")}})

	w := serve(r, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"down"`)
}

func TestMetricsHandlerExposesPrometheus(t *testing.T) {
	r := newSystemRouter(nil)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", nil).Code)
	w := serve(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutines_total")
}
