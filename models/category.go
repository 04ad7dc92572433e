package models

import "time"

// Category is a node in the category tree. Top-level categories have a nil
// ParentID; subcategories point at their parent through it. The tree is
// unbounded in depth, in practice two levels (category -> subcategory).
type Category struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	ParentID      *uint      `gorm:"index" json:"parent_id"`
	Parent        *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Subcategories []Category `gorm:"foreignKey:ParentID" json:"subcategories"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsSubcategory reports whether the node hangs under a parent.
func (c *Category) IsSubcategory() bool {
	return c.ParentID != nil
}
