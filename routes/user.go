package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/kosefatih/e-ticaret-backend/controllers/user"
	"github.com/kosefatih/e-ticaret-backend/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers the /api/users endpoints. All of them require a
// valid token; the listing is admin-only.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	users := api.Group("/users")
	users.Use(middleware.ValidateToken)
	{
		users.GET("", middleware.RequireRole("admin"), userControllers.GetAllUsers(db))

		users.GET("/:id", userControllers.GetUser(db))
		users.PUT("/:id", userControllers.UpdateUser(db))

		users.POST("/:id/addresses", userControllers.AddDeliveryAddress(db))
		users.DELETE("/:id/addresses/:addressId", userControllers.DeleteDeliveryAddress(db))

		users.POST("/:id/follow/:targetId", userControllers.FollowUser(db))
		users.DELETE("/:id/follow/:targetId", userControllers.UnfollowUser(db))
	}
}
