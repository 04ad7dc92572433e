package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/auth"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers the public /api/auth endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
	}
}
