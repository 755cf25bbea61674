// Package api exposes the mind map view state to browser renderers over
// HTTP and WebSocket.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/mindmap/internal/ws"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	session   Session
	hub       *ws.Hub
	log       *logrus.Logger
	version   string
	upstream  string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(session Session, hub *ws.Hub, log *logrus.Logger, version, upstream string) *HealthHandler {
	return &HealthHandler{
		session:   session,
		hub:       hub,
		log:       log,
		version:   version,
		upstream:  upstream,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Upstream      string  `json:"upstream"`
	Viewers       int     `json:"viewers"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Upstream:      h.upstream,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		resp.Viewers = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. The viewer is ready once the initial
// graph load has landed, whether or not it succeeded.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"graph": "loaded"}
	status := "ready"
	statusCode := http.StatusOK

	if h.session == nil || !h.session.State().Loaded {
		checks["graph"] = "loading"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, readinessResponse{Status: status, Checks: checks})
}
