package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kosefatih/e-ticaret-backend/models"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product is no longer available")
	ErrAlreadyCancelled   = errors.New("order is already cancelled")
)

// businessError reports whether err is a rule violation (HTTP 400) rather
// than a storage failure.
func businessError(err error) bool {
	return errors.Is(err, ErrCartEmpty) ||
		errors.Is(err, ErrProductUnavailable) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, models.ErrInsufficientStock)
}

type orderLine struct {
	ProductID uint
	Quantity  int
}

type CreateOrderInput struct {
	UserID uint `json:"user_id" binding:"required"`
	Items  []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// buildOrder validates every line, decrements stock and inserts the order.
// Must run inside a transaction: the conditional decrement fails the whole
// order when any product would overdraw, and the transaction rolls back the
// decrements already applied.
func buildOrder(tx *gorm.DB, userID uint, lines []orderLine) (*models.Order, error) {
	var total float64
	var orderItems []models.OrderItem

	for _, line := range lines {
		var product models.Product
		if err := tx.First(&product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w (product %d)", ErrProductUnavailable, line.ProductID)
			}
			return nil, err
		}

		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w for product: %s", models.ErrInsufficientStock, product.Name)
		}
		if err := models.DecrementStock(tx, product.ID, line.Quantity); err != nil {
			if errors.Is(err, models.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w for product: %s", models.ErrInsufficientStock, product.Name)
			}
			return nil, err
		}

		// Price and seller are snapshots taken now; later product edits do
		// not touch placed orders.
		total += product.Price * float64(line.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			SellerID:    product.SellerID,
		})
	}

	order := models.Order{
		OrderRef:    generateOrderRef(),
		UserID:      userID,
		Items:       orderItems,
		TotalAmount: total,
		Status:      models.OrderStatusPreparing,
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// PlaceOrder converts the user's cart into an order: validate and decrement
// stock for every line, snapshot the total, clear the cart. Everything runs
// in one transaction, so a failure on any line leaves stock and cart
// untouched.
func PlaceOrder(db *gorm.DB, userID uint) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	lines := make([]orderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, orderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = buildOrder(tx, userID, lines)
		if err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder restores stock for every line item and marks the order
// cancelled, all in one transaction. The restore is a relative +quantity,
// not a snapshot write, so sales that happened in the meantime stay sold.
func CancelOrder(db *gorm.DB, order *models.Order) error {
	if order.Status == models.OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := models.IncrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		order.Status = models.OrderStatusCancelled
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error
	})
}

func loadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Seller").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /api/cart/:userId/create-order
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID64, err := strconv.ParseUint(c.Param("userId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}

		order, err := PlaceOrder(db, uint(userID64))
		if err != nil {
			if businessError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to place order", "error": err.Error()})
			return
		}

		full, err := loadOrder(db, order.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load order", "error": err.Error()})
			return
		}

		broadcastOrderEvent("order_created", full)
		c.JSON(http.StatusCreated, full)
	}
}

// CreateOrderHandler creates an order directly from an explicit item list,
// bypassing the cart. Same stock rules as cart conversion.
// POST /api/orders
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "error": err.Error()})
			return
		}

		lines := make([]orderLine, 0, len(input.Items))
		for _, item := range input.Items {
			lines = append(lines, orderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		var order *models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			order, err = buildOrder(tx, input.UserID, lines)
			return err
		})
		if err != nil {
			if businessError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order", "error": err.Error()})
			return
		}

		full, err := loadOrder(db, order.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load order", "error": err.Error()})
			return
		}

		broadcastOrderEvent("order_created", full)
		c.JSON(http.StatusCreated, full)
	}
}

// UpdateOrderStatusHandler overwrites the order status. A transition to
// cancelled additionally restores stock; any other transition is applied
// without further checks.
// PATCH /api/orders/:orderId
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID64, err := strconv.ParseUint(c.Param("orderId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order ID"})
			return
		}

		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Status is required", "error": err.Error()})
			return
		}
		status, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, uint(orderID64)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order", "error": err.Error()})
			return
		}

		if status == models.OrderStatusCancelled {
			if err := CancelOrder(db, &order); err != nil {
				if businessError(err) {
					c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to cancel order", "error": err.Error()})
				return
			}
		} else {
			order.Status = status
			if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", status).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update status", "error": err.Error()})
				return
			}
		}

		broadcastOrderEvent("order_status", &order)
		c.JSON(http.StatusOK, order)
	}
}

// GET /api/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/user/:userId
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Items.Product").
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetSellerOrdersHandler projects orders containing at least one line item
// sold by the given seller.
// GET /api/orders/seller/:sellerId
func GetSellerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.Param("sellerId")
		var orders []models.Order
		if err := db.
			Distinct("orders.*").
			Joins("JOIN order_items oi ON oi.order_id = orders.id").
			Where("oi.seller_id = ?", sellerID).
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Preload("Items.Seller").
			Order("orders.created_at desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch seller orders", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
