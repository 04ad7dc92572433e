package categoryControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.DeliveryAddress{}, &models.Category{},
		&models.Product{}, &models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Favorite{}, &models.Review{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/categories", CreateCategory(db))
	r.GET("/api/categories", GetAllCategories(db))
	r.GET("/api/categories/:id", GetCategoryByID(db))
	r.GET("/api/categories/:id/subcategories", GetSubcategories(db))
	r.GET("/api/categories/:id/products", GetProductsByCategoryID(db))
	r.DELETE("/api/categories/:id", DeleteCategory(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func mustCreateCategory(t *testing.T, db *gorm.DB, name string, parentID *uint) models.Category {
	t.Helper()
	cat := models.Category{Name: name, ParentID: parentID}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return cat
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, subcategory models.Category, stock int) models.Product {
	t.Helper()
	if subcategory.ParentID == nil {
		t.Fatalf("test product %q needs a subcategory with a parent", name)
	}
	product := models.Product{
		Name:          name,
		SubcategoryID: subcategory.ID,
		Categories:    []models.Category{{ID: *subcategory.ParentID}},
		Price:         10,
		Stock:         stock,
		Status:        models.ProductStatusActive,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product %q: %v", name, err)
	}
	return product
}

func TestCreateCategory(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	rr := doJSON(t, r, http.MethodPost, "/api/categories", gin.H{"name": "Seeds"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201 (%s)", rr.Code, rr.Body)
	}

	var created struct {
		Category models.Category `json:"category"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Category.ID == 0 || created.Category.Name != "Seeds" {
		t.Errorf("unexpected category in response: %+v", created.Category)
	}

	// Subcategory under the new parent.
	rr = doJSON(t, r, http.MethodPost, "/api/categories", gin.H{"name": "Vegetable Seeds", "parent": created.Category.ID})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create subcategory: got status %d, want 201 (%s)", rr.Code, rr.Body)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	seeds := mustCreateCategory(t, db, "Seeds", nil)
	mustCreateCategory(t, db, "Vegetable Seeds", &seeds.ID)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"empty name", gin.H{"name": ""}, http.StatusBadRequest},
		{"duplicate top-level name", gin.H{"name": "seeds"}, http.StatusBadRequest},
		{"duplicate sibling case-insensitive", gin.H{"name": "VEGETABLE seeds", "parent": seeds.ID}, http.StatusBadRequest},
		{"unknown parent", gin.H{"name": "Flower Seeds", "parent": 9999}, http.StatusNotFound},
		// Same name is fine under a different parent.
		{"same name different level", gin.H{"name": "Seeds", "parent": seeds.ID}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, r, http.MethodPost, "/api/categories", tt.body)
			if rr.Code != tt.want {
				t.Errorf("got status %d, want %d (%s)", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestExpandWithDescendants(t *testing.T) {
	db := newTestDB(t)
	seeds := mustCreateCategory(t, db, "Seeds", nil)
	veg := mustCreateCategory(t, db, "Vegetable Seeds", &seeds.ID)
	heirloom := mustCreateCategory(t, db, "Heirloom", &veg.ID)
	mustCreateCategory(t, db, "Tools", nil)

	ids, err := ExpandWithDescendants(db, seeds.ID)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	want := map[uint]bool{seeds.ID: true, veg.ID: true, heirloom.ID: true}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids %v, want %d", len(ids), ids, len(want))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected id %d in expansion", id)
		}
	}
}

func TestExpandWithDescendantsTerminatesOnCycle(t *testing.T) {
	db := newTestDB(t)
	a := mustCreateCategory(t, db, "A", nil)
	b := mustCreateCategory(t, db, "B", &a.ID)
	// Corrupt the tree: A's parent becomes its own child.
	if err := db.Model(&models.Category{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error; err != nil {
		t.Fatalf("failed to corrupt tree: %v", err)
	}

	ids, err := ExpandWithDescendants(db, a.ID)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d ids %v, want 2", len(ids), ids)
	}
}

func TestDeleteCategory(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	seeds := mustCreateCategory(t, db, "Seeds", nil)
	veg := mustCreateCategory(t, db, "Vegetable Seeds", &seeds.ID)

	t.Run("missing category", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodDelete, "/api/categories/9999", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404", rr.Code)
		}
	})

	t.Run("blocked by products in subtree", func(t *testing.T) {
		product := mustCreateProduct(t, db, "Tomato Seeds", veg, 10)

		rr := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", seeds.ID), nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400 (%s)", rr.Code, rr.Body)
		}

		// The category must still be there.
		var count int64
		db.Model(&models.Category{}).Where("id = ?", seeds.ID).Count(&count)
		if count != 1 {
			t.Error("category was deleted despite referencing products")
		}

		db.Exec("DELETE FROM product_categories")
		if err := db.Delete(&product).Error; err != nil {
			t.Fatalf("failed to clean up product: %v", err)
		}
	})

	t.Run("cascade deletes subtree", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", seeds.ID), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200 (%s)", rr.Code, rr.Body)
		}

		var count int64
		db.Model(&models.Category{}).Count(&count)
		if count != 0 {
			t.Errorf("expected empty category table, found %d rows", count)
		}
	})
}

func TestGetProductsByCategoryExpandsDescendants(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	seeds := mustCreateCategory(t, db, "Seeds", nil)
	veg := mustCreateCategory(t, db, "Vegetable Seeds", &seeds.ID)
	tools := mustCreateCategory(t, db, "Tools", nil)
	shovels := mustCreateCategory(t, db, "Shovels", &tools.ID)

	mustCreateProduct(t, db, "Tomato Seeds", veg, 10)
	mustCreateProduct(t, db, "Steel Shovel", shovels, 3)

	rr := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/categories/%d/products", seeds.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (%s)", rr.Code, rr.Body)
	}

	var products []models.Product
	if err := json.Unmarshal(rr.Body.Bytes(), &products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Tomato Seeds" {
		t.Errorf("got products %+v, want only Tomato Seeds", products)
	}
}

func TestGetSubcategories(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	seeds := mustCreateCategory(t, db, "Seeds", nil)
	mustCreateCategory(t, db, "Vegetable Seeds", &seeds.ID)
	mustCreateCategory(t, db, "Flower Seeds", &seeds.ID)

	rr := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/categories/%d/subcategories", seeds.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (%s)", rr.Code, rr.Body)
	}
	var subs []models.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &subs); err != nil {
		t.Fatalf("failed to decode subcategories: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("got %d subcategories, want 2", len(subs))
	}

	rr = doJSON(t, r, http.MethodGet, "/api/categories/9999/subcategories", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rr.Code)
	}
}
