package media

import (
	"github.com/gin-gonic/gin"

	"giftfinder/internal/middleware"
	"giftfinder/internal/pkg/jwt"
)

// RegisterRoutes registers media routes. All of them require a JWT.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, jwtService *jwt.Service) {
	media := r.Group("/media")
	media.Use(middleware.JWTAuth(jwtService))
	{
		media.POST("", h.Upload)
		media.GET("", h.List)
		media.GET("/:id", h.Get)
		media.PATCH("/:id", h.Update)
		media.DELETE("/:id", h.Delete)
	}
}
