package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler forwards to Service. Health responses are bare JSON, not the API
// envelope.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Health godoc
// @Summary Dependency health
// @Tags Health
// @Produce json
// @Success 200 {object} Report
// @Failure 503 {object} Report
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	report := h.service.Health(c.Request.Context())
	status := http.StatusOK
	if report.Status != StatusOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Ready godoc
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live godoc
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "uptimeSeconds": h.service.Uptime()})
}

// Metrics godoc
// @Summary Runtime metrics
// @Tags Health
// @Produce json
// @Success 200 {object} RuntimeMetrics
// @Router /health/metrics [get]
func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Metrics())
}
