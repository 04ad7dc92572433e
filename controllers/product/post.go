package productcontroller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	CategoryIDs   []uint   `json:"category_ids"`
	SubcategoryID uint     `json:"subcategory_id" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice float64  `json:"discount_price"`
	Stock         *int     `json:"stock" binding:"required,gte=0"`
	SellerID      uint     `json:"seller_id"`
	Images        []string `json:"images"`
	Status        string   `json:"status"`
}

// resolveSubcategory loads the subcategory and rejects top-level nodes.
func resolveSubcategory(db *gorm.DB, id uint) (*models.Category, error) {
	var subcategory models.Category
	if err := db.First(&subcategory, id).Error; err != nil {
		return nil, err
	}
	if !subcategory.IsSubcategory() {
		return nil, errors.New("subcategory must be a child of a top-level category")
	}
	return &subcategory, nil
}

// resolveCategories validates an explicit category list against the
// subcategory's parent. When the list is empty, it defaults to the parent.
func resolveCategories(db *gorm.DB, categoryIDs []uint, subcategory *models.Category) ([]models.Category, error) {
	if len(categoryIDs) == 0 {
		categoryIDs = []uint{*subcategory.ParentID}
	}

	var categories []models.Category
	if err := db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(categoryIDs) {
		return nil, errors.New("one or more category IDs do not exist")
	}

	hasParent := false
	for _, cat := range categories {
		if cat.ID == *subcategory.ParentID {
			hasParent = true
			break
		}
	}
	if !hasParent {
		return nil, errors.New("category list must include the subcategory's parent")
	}
	return categories, nil
}

// validateDiscount enforces the on_discount coherence rule.
func validateDiscount(status models.ProductStatus, price, discountPrice float64) error {
	if status == models.ProductStatusOnDiscount {
		if discountPrice <= 0 || discountPrice >= price {
			return errors.New("discount price must be set and lower than the price")
		}
	}
	return nil
}

// POST /api/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "error": err.Error()})
			return
		}

		status, err := models.ParseProductStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := validateDiscount(status, input.Price, input.DiscountPrice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		subcategory, err := resolveSubcategory(db, input.SubcategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Subcategory not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		categories, err := resolveCategories(db, input.CategoryIDs, subcategory)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		// Seller comes from the token when the request is authenticated.
		sellerID := input.SellerID
		if v, ok := c.Get("user_id"); ok {
			if id, ok := v.(uint); ok {
				sellerID = id
			}
		}

		images, err := json.Marshal(input.Images)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image list", "error": err.Error()})
			return
		}

		product := models.Product{
			Name:          input.Name,
			Description:   input.Description,
			Categories:    categories,
			SubcategoryID: subcategory.ID,
			Price:         input.Price,
			DiscountPrice: input.DiscountPrice,
			Stock:         *input.Stock,
			SellerID:      sellerID,
			Images:        images,
			Status:        status,
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&product).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product", "error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
