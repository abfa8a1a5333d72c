package health

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the liveness/readiness checks and the Prometheus endpoint at the root.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	health := r.Group("/health")
	{
		health.GET("", h.Health)
		health.GET("/ready", h.Ready)
		health.GET("/live", h.Live)
		health.GET("/metrics", h.Metrics)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
