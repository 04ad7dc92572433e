package favoriteControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

func parsePairParams(c *gin.Context) (uint, uint, bool) {
	userID64, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return 0, 0, false
	}
	productID64, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return 0, 0, false
	}
	return uint(userID64), uint(productID64), true
}

// POST /api/favorites/:userId/:productId
func AddFavorite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, productID, ok := parsePairParams(c)
		if !ok {
			return
		}

		var existing models.Favorite
		err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Already in favorites"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check favorites", "error": err.Error()})
			return
		}

		favorite := models.Favorite{UserID: userID, ProductID: productID}
		if err := db.Create(&favorite).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add favorite", "error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Added to favorites", "favorite": favorite})
	}
}

// RemoveFavorite is idempotent; removing an absent pair still succeeds.
// DELETE /api/favorites/:userId/:productId
func RemoveFavorite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, productID, ok := parsePairParams(c)
		if !ok {
			return
		}

		if err := db.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.Favorite{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove favorite", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
	}
}

// GET /api/favorites/:userId
func GetUserFavorites(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		var favorites []models.Favorite
		if err := db.Where("user_id = ?", userID).
			Preload("Product").
			Find(&favorites).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch favorites", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, favorites)
	}
}

// GET /api/favorites/:userId/check/:productId
func CheckFavoriteStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, productID, ok := parsePairParams(c)
		if !ok {
			return
		}

		var count int64
		if err := db.Model(&models.Favorite{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check favorite", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"is_favorite": count > 0})
	}
}
