package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Username *string `json:"username"`
	Address  *string `json:"address"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

type AddDeliveryAddressInput struct {
	Label       string `json:"label"`
	FullAddress string `json:"full_address" binding:"required"`
	City        string `json:"city"`
	District    string `json:"district"`
	PostalCode  string `json:"postal_code"`
}

func loadUser(db *gorm.DB, c *gin.Context, param string) (*models.User, bool) {
	var user models.User
	if err := db.Preload("DeliveryAddresses").First(&user, "id = ?", c.Param(param)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user", "error": err.Error()})
		return nil, false
	}
	return &user, true
}

// GET /api/users/:id
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(db, c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /api/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "username", "email", "role", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /api/users/:id
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(db, c, "id")
		if !ok {
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Username != nil {
			updates["username"] = *input.Username
		}
		if input.Address != nil {
			updates["address"] = *input.Address
		}
		if input.FullName != nil {
			updates["full_name"] = *input.FullName
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}

// POST /api/users/:id/addresses
func AddDeliveryAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(db, c, "id")
		if !ok {
			return
		}

		var input AddDeliveryAddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "error": err.Error()})
			return
		}

		address := models.DeliveryAddress{
			UserID:      user.ID,
			Label:       input.Label,
			FullAddress: input.FullAddress,
			City:        input.City,
			District:    input.District,
			PostalCode:  input.PostalCode,
		}
		if err := db.Create(&address).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add address", "error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

// DELETE /api/users/:id/addresses/:addressId
func DeleteDeliveryAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUser(db, c, "id")
		if !ok {
			return
		}

		res := db.Where("user_id = ? AND id = ?", user.ID, c.Param("addressId")).
			Delete(&models.DeliveryAddress{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete address", "error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}

// POST /api/users/:id/follow/:targetId
func FollowUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		followerID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}
		if c.Param("id") == c.Param("targetId") {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Users cannot follow themselves"})
			return
		}

		var target, follower models.User
		if err := db.First(&target, "id = ?", c.Param("targetId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user", "error": err.Error()})
			return
		}
		if err := db.First(&follower, uint(followerID64)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user", "error": err.Error()})
			return
		}

		if err := db.Model(&target).Association("Followers").Append(&follower); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to follow user", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Now following"})
	}
}

// DELETE /api/users/:id/follow/:targetId
func UnfollowUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		followerID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}

		var target models.User
		if err := db.First(&target, "id = ?", c.Param("targetId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user", "error": err.Error()})
			return
		}

		follower := models.User{ID: uint(followerID64)}
		if err := db.Model(&target).Association("Followers").Delete(&follower); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to unfollow user", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
	}
}
