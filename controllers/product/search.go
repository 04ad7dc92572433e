package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

// SearchProducts matches the search term case-insensitively against the
// product name or the name of any category/subcategory the product belongs
// to. Matches are OR'd together, not ranked.
// Query params: searchTerm (required), status (optional).
func SearchProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("searchTerm"))
		if term == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "searchTerm is required"})
			return
		}
		like := "%" + strings.ToLower(term) + "%"

		query := db.Model(&models.Product{}).
			Distinct("products.*").
			Joins("LEFT JOIN product_categories pc ON pc.product_id = products.id").
			Joins("LEFT JOIN categories tc ON tc.id = pc.category_id").
			Joins("LEFT JOIN categories sc ON sc.id = products.subcategory_id").
			Where("LOWER(products.name) LIKE ? OR LOWER(tc.name) LIKE ? OR LOWER(sc.name) LIKE ?", like, like, like).
			Preload("Categories").
			Preload("Subcategory")

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
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Search failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
