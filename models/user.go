package models

import (
	"errors"
	"strings"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleSeller   UserRole = "seller"
	RoleAdmin    UserRole = "admin"
)

// ParseUserRole validates a role string against the known roles.
// An empty string falls back to customer.
func ParseUserRole(role string) (UserRole, error) {
	switch strings.ToLower(role) {
	case "":
		return RoleCustomer, nil
	case string(RoleCustomer):
		return RoleCustomer, nil
	case string(RoleSeller):
		return RoleSeller, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", errors.New("invalid user role")
	}
}

type User struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Username          string            `gorm:"not null" json:"username"`
	Email             string            `gorm:"unique;not null" json:"email"`
	Password          string            `gorm:"not null" json:"-"`
	Role              UserRole          `gorm:"type:VARCHAR(20);default:'customer'" json:"role"`
	Address           string            `json:"address"`
	FullName          string            `json:"full_name"`
	Phone             string            `json:"phone"`
	DeliveryAddresses []DeliveryAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"delivery_addresses,omitempty"`
	Followers         []*User           `gorm:"many2many:user_followers;joinForeignKey:UserID;joinReferences:FollowerID" json:"-"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// DeliveryAddress is one saved shipping address of a user.
type DeliveryAddress struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint   `gorm:"index" json:"user_id"`
	Label       string `json:"label"`
	FullAddress string `json:"full_address"`
	City        string `json:"city"`
	District    string `json:"district"`
	PostalCode  string `json:"postal_code"`
}
