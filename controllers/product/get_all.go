package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	categoryControllers "github.com/kosefatih/e-ticaret-backend/controllers/category"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

// GetProducts lists the catalog with optional filters.
// Query params: category_id (expanded to descendants), subcategory_id, status.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).
			Preload("Categories").
			Preload("Subcategory")

		if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
			cid, err := strconv.ParseUint(categoryIDStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category_id"})
				return
			}
			ids, err := categoryControllers.ExpandWithDescendants(db, uint(cid))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve category", "error": err.Error()})
				return
			}
			query = query.
				Distinct("products.*").
				Joins("LEFT JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id IN ? OR products.subcategory_id IN ?", ids, ids)
		}

		if subcategoryIDStr := c.Query("subcategory_id"); subcategoryIDStr != "" {
			sid, err := strconv.ParseUint(subcategoryIDStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid subcategory_id"})
				return
			}
			var subcategory models.Category
			if err := db.First(&subcategory, uint(sid)).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"message": "Subcategory not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve subcategory", "error": err.Error()})
				return
			}
			if !subcategory.IsSubcategory() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Given ID is a top-level category, not a subcategory"})
				return
			}
			query = query.Where("products.subcategory_id = ?", subcategory.ID)
		}

		if statusStr := c.Query("status"); statusStr != "" {
			status, err := models.ParseProductStatus(statusStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			query = query.Where("products.status = ?", status)
		}

		var products []models.Product
		if err := query.Order("products.created_at desc").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
