package auth

import (
	"github.com/gin-gonic/gin"

	"giftfinder/internal/middleware"
	"giftfinder/internal/pkg/jwt"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, jwtService *jwt.Service) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.JWTAuth(jwtService), h.Me)
	}
}
