package routes

import (
	"github.com/gin-gonic/gin"
	categoryControllers "github.com/kosefatih/e-ticaret-backend/controllers/category"
	productcontroller "github.com/kosefatih/e-ticaret-backend/controllers/product"
	"github.com/kosefatih/e-ticaret-backend/middleware"
	"gorm.io/gorm"
)

// SetupProductRoutes registers the /api/products endpoints. Catalog reads
// are public; mutations require a seller or admin token.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB) {
	products := api.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/search", productcontroller.SearchProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
		products.GET("/category/:id", categoryControllers.GetProductsByCategoryID(db))

		sellers := products.Group("", middleware.ValidateToken, middleware.RequireRole("seller", "admin"))
		{
			sellers.POST("", productcontroller.CreateProduct(db))
			sellers.PUT("/:id", productcontroller.UpdateProduct(db))
			sellers.DELETE("/:id", productcontroller.DeleteProduct(db))
		}

		products.GET("/export-excel", middleware.ValidateToken, middleware.RequireRole("admin"),
			productcontroller.ExportProductsToExcel(db))
	}
}
