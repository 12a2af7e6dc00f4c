package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler("1.2.3", &ModelStatus{Provider: "gemini", Name: "gemini-1.5-flash", Configured: false}, nil)

	w := serve(h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, w.Body.String(), `"configured":false`)
}

func TestReadinessCheck(t *testing.T) {
	ok := NewHandler("v", nil, func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, serve(ok, "/ready").Code)

	down := NewHandler("v", nil, func(context.Context) error { return errors.New("connection refused") })
	w := serve(down, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestLivenessCheck(t *testing.T) {
	w := serve(NewHandler("v", nil, nil), "/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}
