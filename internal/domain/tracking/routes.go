package tracking

import "github.com/gin-gonic/gin"

// RegisterRoutes registers public tracking routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	tracking := r.Group("/tracking")
	{
		tracking.POST("/click/:linkId", h.RecordClick)
		tracking.POST("/conversion", h.RecordConversion)
		tracking.GET("/stats/:productId", h.GetStats)
	}
}
