package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/kosefatih/e-ticaret-backend/controllers/cart"
	orderControllers "github.com/kosefatih/e-ticaret-backend/controllers/order"
	"gorm.io/gorm"
)

// SetupCartRoutes registers the /api/cart endpoints, including the
// cart-to-order conversion.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	{
		cart.GET("/:userId", cartControllers.GetCartItems(db))
		cart.POST("/:userId", cartControllers.AddToCart(db))
		cart.PUT("/:userId/:productId", cartControllers.UpdateCartQuantity(db))
		cart.DELETE("/:userId/:productId", cartControllers.RemoveFromCart(db))

		cart.POST("/:userId/create-order", orderControllers.PlaceOrderHandler(db))
	}
}
