package models

import "time"

// Favorite is an existence-only (user, product) pair.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_user_product" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_favorites_user_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
