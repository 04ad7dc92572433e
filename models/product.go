package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOnDiscount ProductStatus = "on_discount"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// ParseProductStatus validates a status string. Empty falls back to active.
func ParseProductStatus(status string) (ProductStatus, error) {
	switch strings.ToLower(status) {
	case "":
		return ProductStatusActive, nil
	case string(ProductStatusActive):
		return ProductStatusActive, nil
	case string(ProductStatusInactive):
		return ProductStatusInactive, nil
	case string(ProductStatusOnDiscount):
		return ProductStatusOnDiscount, nil
	default:
		return "", errors.New("invalid product status")
	}
}

type Product struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	Categories    []Category     `gorm:"many2many:product_categories" json:"categories"`
	SubcategoryID uint           `gorm:"not null;index" json:"subcategory_id"`
	Subcategory   *Category      `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Price         float64        `gorm:"not null" json:"price"`
	DiscountPrice float64        `json:"discount_price"`
	Stock         int            `json:"stock"`
	SellerID      uint           `gorm:"index" json:"seller_id"`
	Seller        *User          `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Images        datatypes.JSON `json:"images"`
	Status        ProductStatus  `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// DecrementStock subtracts qty from the product's stock in a single
// conditional update. The update matches only while stock >= qty, so two
// concurrent orders can never overdraw: the loser sees zero affected rows
// and gets ErrInsufficientStock.
func DecrementStock(db *gorm.DB, productID uint, qty int) error {
	res := db.Model(&Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock adds qty back to the product's stock. Relative adjustment,
// not a snapshot restore: intervening sales by other orders are preserved.
func IncrementStock(db *gorm.DB, productID uint, qty int) error {
	return db.Model(&Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}
