package catalog

import (
	"github.com/gin-gonic/gin"

	"giftfinder/internal/middleware"
	"giftfinder/internal/pkg/jwt"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, jwtService *jwt.Service) {
	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}

	admin := r.Group("", middleware.JWTAuth(jwtService), middleware.AdminOnly())
	{
		admin.POST("/products", h.CreateProduct)
		admin.POST("/products/:id/links", h.CreateLink)
		admin.PATCH("/links/:id", h.UpdateLink)
	}
}
