package feedback

import (
	"github.com/gin-gonic/gin"

	"giftfinder/internal/middleware"
	"giftfinder/internal/pkg/jwt"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, jwtService *jwt.Service) {
	feedback := r.Group("/feedback")
	feedback.Use(middleware.OptionalJWT(jwtService))
	{
		feedback.POST("", h.Submit)
		feedback.GET("/summary/:productId", h.Summary)
	}
}
