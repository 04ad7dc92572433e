package routes

import (
	"github.com/gin-gonic/gin"
	favoriteControllers "github.com/kosefatih/e-ticaret-backend/controllers/favorite"
	"gorm.io/gorm"
)

// SetupFavoriteRoutes registers the /api/favorites endpoints.
func SetupFavoriteRoutes(api *gin.RouterGroup, db *gorm.DB) {
	favorites := api.Group("/favorites")
	{
		favorites.GET("/:userId", favoriteControllers.GetUserFavorites(db))
		favorites.POST("/:userId/:productId", favoriteControllers.AddFavorite(db))
		favorites.DELETE("/:userId/:productId", favoriteControllers.RemoveFavorite(db))
		favorites.GET("/:userId/check/:productId", favoriteControllers.CheckFavoriteStatus(db))
	}
}
