package productcontroller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	CategoryIDs   []uint    `json:"category_ids"`
	SubcategoryID *uint     `json:"subcategory_id"`
	Price         *float64  `json:"price"`
	DiscountPrice *float64  `json:"discount_price"`
	Stock         *int      `json:"stock"`
	Images        *[]string `json:"images"`
	Status        *string   `json:"status"`
}

// UpdateProduct applies a partial update, re-validating the
// price/discount/status coherence and the category/subcategory relation.
// URL param: /api/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product", "error": err.Error()})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "error": err.Error()})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be positive"})
				return
			}
			product.Price = *input.Price
		}
		if input.DiscountPrice != nil {
			product.DiscountPrice = *input.DiscountPrice
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Stock cannot be negative"})
				return
			}
			product.Stock = *input.Stock
		}
		if input.Status != nil {
			status, err := models.ParseProductStatus(*input.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			product.Status = status
		}
		if input.Images != nil {
			images, err := json.Marshal(*input.Images)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image list", "error": err.Error()})
				return
			}
			product.Images = images
		}

		if err := validateDiscount(product.Status, product.Price, product.DiscountPrice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		subcategory := product.Subcategory
		if input.SubcategoryID != nil {
			subcategory, err = resolveSubcategory(db, *input.SubcategoryID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"message": "Subcategory not found"})
					return
				}
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			product.SubcategoryID = subcategory.ID
			product.Subcategory = subcategory
		}

		var categories []models.Category
		if input.CategoryIDs != nil || input.SubcategoryID != nil {
			if subcategory == nil {
				subcategory, err = resolveSubcategory(db, product.SubcategoryID)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
			}
			categories, err = resolveCategories(db, input.CategoryIDs, subcategory)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if categories != nil {
				if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
					return err
				}
			}
			return tx.Save(&product).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
