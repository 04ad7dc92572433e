package routes

import (
	"github.com/gin-gonic/gin"
	reviewControllers "github.com/kosefatih/e-ticaret-backend/controllers/review"
	"gorm.io/gorm"
)

// SetupReviewRoutes registers the /api/reviews endpoints.
func SetupReviewRoutes(api *gin.RouterGroup, db *gorm.DB) {
	reviews := api.Group("/reviews")
	{
		reviews.POST("/:productId", reviewControllers.CreateReview(db))
		reviews.GET("/:productId", reviewControllers.GetProductReviews(db))
	}
}
