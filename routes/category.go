package routes

import (
	"github.com/gin-gonic/gin"
	categoryControllers "github.com/kosefatih/e-ticaret-backend/controllers/category"
	"github.com/kosefatih/e-ticaret-backend/middleware"
	"gorm.io/gorm"
)

// SetupCategoryRoutes registers the /api/categories endpoints. Reads are
// public; tree mutations are admin-only.
func SetupCategoryRoutes(api *gin.RouterGroup, db *gorm.DB) {
	categories := api.Group("/categories")
	{
		categories.GET("", categoryControllers.GetAllCategories(db))
		categories.GET("/:id", categoryControllers.GetCategoryByID(db))
		categories.GET("/:id/subcategories", categoryControllers.GetSubcategories(db))
		categories.GET("/:id/products", categoryControllers.GetProductsByCategoryID(db))

		categories.POST("", middleware.ValidateToken, middleware.RequireRole("admin"),
			categoryControllers.CreateCategory(db))
		categories.DELETE("/:id", middleware.ValidateToken, middleware.RequireRole("admin"),
			categoryControllers.DeleteCategory(db))
	}
}
