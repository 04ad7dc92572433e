package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/kosefatih/e-ticaret-backend/controllers/order"
	"github.com/kosefatih/e-ticaret-backend/middleware"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers the /api/orders endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	{
		orders.POST("", orderControllers.CreateOrderHandler(db))
		orders.GET("", middleware.ValidateToken, middleware.RequireRole("admin"),
			orderControllers.GetAllOrdersHandler(db))

		// websocket feed of order events
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)

		orders.GET("/user/:userId", orderControllers.GetUserOrdersHandler(db))
		orders.GET("/seller/:sellerId", orderControllers.GetSellerOrdersHandler(db))

		orders.PATCH("/:orderId", orderControllers.UpdateOrderStatusHandler(db))
	}
}
