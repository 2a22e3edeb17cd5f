package handlers

import (
	"net/http"

	"milktea-server/internal/checkout"
	"milktea-server/internal/database"
	"milktea-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderRequest is a direct order submission (pay-later / cod path without a
// checkout session). Items are re-priced server-side from the catalog.
type OrderRequest struct {
	Customer  checkout.Customer `json:"customer" binding:"required"`
	OrderType string            `json:"order_type" binding:"required"`
	Payment   string            `json:"payment_method" binding:"required"`
	Items     []OrderLine       `json:"items" binding:"required,min=1"`
}

// OrderLine is one requested drink: which product, how many, and how
// the customer wants it made.
type OrderLine struct {
	ProductID uint               `json:"product_id" binding:"required"`
	Quantity  int                `json:"quantity" binding:"required,min=1"`
	Selection checkout.Selection `json:"selection" binding:"required"`
}

// buildOrderItems re-resolves every line against the catalog so clients
// cannot submit their own prices.
func buildOrderItems(items []OrderLine) ([]models.OrderItem, float64, error) {
	var orderItems []models.OrderItem
	var total float64

	for _, line := range items {
		var product models.Product
		err := database.DB.Preload("Sizes").Preload("Addons").
			First(&product, line.ProductID).Error
		if err != nil {
			return nil, 0, err
		}

		unit, err := checkout.UnitPrice(product, line.Selection)
		if err != nil {
			return nil, 0, err
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unit,
			Size:        line.Selection.Size,
			SugarLevel:  line.Selection.SugarLevel,
			IceLevel:    line.Selection.IceLevel,
			Addons:      line.Selection.Addons,
		})
		total += unit * float64(line.Quantity)
	}
	return orderItems, total, nil
}

// --- POST /api/orders ---
func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !models.ValidOrderType(req.OrderType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order type must be pickup or delivery"})
		return
	}
	if !models.ValidPaymentMethod(req.Payment) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	items, total, err := buildOrderItems(req.Items)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := models.Order{
		CustomerName:    req.Customer.Name,
		CustomerEmail:   req.Customer.Email,
		CustomerPhone:   req.Customer.Phone,
		CustomerAddress: req.Customer.Address,
		Items:           items,
		TotalAmount:     total,
		OrderType:       req.OrderType,
		PaymentMethod:   req.Payment,
	}

	if err := database.CreateOrder(&order); err != nil {
		zap.L().Error("order create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// --- GET /api/orders/my-orders ---
func MyOrders(c *gin.Context) {
	email := c.MustGet("email").(string)

	var orders []models.Order
	err := database.DB.Preload("Items").
		Where("customer_email = ?", email).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		zap.L().Error("my-orders query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// --- GET /api/orders/:id ---
// Owners see their own orders; admins see everything.
func GetOrder(c *gin.Context) {
	id := c.Param("id")

	var order models.Order
	if err := database.DB.Preload("Items").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	email := c.MustGet("email").(string)
	role := c.MustGet("role").(string)
	if role != "admin" && order.CustomerEmail != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this order"})
		return
	}

	c.JSON(http.StatusOK, order)
}
