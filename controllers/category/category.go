package categoryControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

type CreateCategoryInput struct {
	Name   string `json:"name" binding:"required"`
	Parent *uint  `json:"parent"`
}

// ExpandWithDescendants resolves a category id to itself plus every
// transitive subcategory id. The walk runs over an id-indexed map with a
// visited set, so a corrupted cyclic parent link terminates instead of
// looping.
func ExpandWithDescendants(db *gorm.DB, id uint) ([]uint, error) {
	var categories []models.Category
	if err := db.Select("id", "parent_id").Find(&categories).Error; err != nil {
		return nil, err
	}

	children := make(map[uint][]uint, len(categories))
	for _, cat := range categories {
		if cat.ParentID != nil {
			children[*cat.ParentID] = append(children[*cat.ParentID], cat.ID)
		}
	}

	visited := map[uint]bool{id: true}
	ids := []uint{id}
	queue := []uint{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}

// countProductsInTree counts products referencing any of the given category
// ids, either through the many2many tagging or as their subcategory.
func countProductsInTree(db *gorm.DB, ids []uint) (int64, error) {
	var count int64
	err := db.Model(&models.Product{}).
		Distinct("products.id").
		Joins("LEFT JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id IN ? OR products.subcategory_id IN ?", ids, ids).
		Count(&count).Error
	return count, err
}

// POST /api/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required", "error": err.Error()})
			return
		}

		name := strings.TrimSpace(input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
			return
		}

		if input.Parent != nil {
			var parent models.Category
			if err := db.First(&parent, *input.Parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"message": "Parent category not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to validate parent", "error": err.Error()})
				return
			}
		}

		// Name uniqueness is case-insensitive among siblings of the same parent.
		dup := db.Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
		if input.Parent != nil {
			dup = dup.Where("parent_id = ?", *input.Parent)
		} else {
			dup = dup.Where("parent_id IS NULL")
		}
		var count int64
		if err := dup.Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check category name", "error": err.Error()})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "A category or subcategory with this name already exists"})
			return
		}

		category := models.Category{Name: name, ParentID: input.Parent}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category", "error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
	}
}

// GET /api/categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Parent").Preload("Subcategories").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /api/categories/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var category models.Category
		if err := db.Preload("Parent").Preload("Subcategories").First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch category", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// GET /api/categories/:id/subcategories
func GetSubcategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var parent models.Category
		if err := db.Preload("Subcategories").First(&parent, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Parent category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch subcategories", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, parent.Subcategories)
	}
}

// DELETE /api/categories/:id
//
// Deletion cascades over the whole subtree, but is refused while the
// category or any descendant still has products.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id64, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category ID"})
			return
		}

		var category models.Category
		if err := db.First(&category, uint(id64)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch category", "error": err.Error()})
			return
		}

		ids, err := ExpandWithDescendants(db, category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve subcategories", "error": err.Error()})
			return
		}

		count, err := countProductsInTree(db, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check products", "error": err.Error()})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "This category has products, delete the products first"})
			return
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Where("id IN ?", ids).Delete(&models.Category{}).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category and its subcategories deleted"})
	}
}

// GET /api/categories/:id/products
//
// Returns the products of the category and all of its descendants.
func GetProductsByCategoryID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id64, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category ID"})
			return
		}

		var category models.Category
		if err := db.First(&category, uint(id64)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch category", "error": err.Error()})
			return
		}

		ids, err := ExpandWithDescendants(db, category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve subcategories", "error": err.Error()})
			return
		}

		var products []models.Product
		if err := db.Model(&models.Product{}).
			Distinct("products.*").
			Joins("LEFT JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id IN ? OR products.subcategory_id IN ?", ids, ids).
			Preload("Categories").
			Preload("Subcategory").
			Order("created_at desc").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}
