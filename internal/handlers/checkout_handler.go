package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"milktea-server/internal/checkout"
	"milktea-server/internal/database"
	"milktea-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sessions holds live checkout attempts. Payment confirmation happens on
// the server against this store rather than trusting a client-reported
// outcome.
var Sessions = checkout.NewStore(processingDelay())

// processingDelay is the simulated payment processor round-trip.
func processingDelay() time.Duration {
	if ms := os.Getenv("PAYMENT_DELAY_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			return time.Duration(v) * time.Millisecond
		}
	}
	return 1500 * time.Millisecond
}

type StartCheckoutRequest struct {
	Customer  checkout.Customer `json:"customer" binding:"required"`
	OrderType string            `json:"order_type" binding:"required"`
	Items     []OrderLine       `json:"items" binding:"required,min=1"`
}

// sessionView is what every checkout endpoint returns: enough for the
// client to render the current step.
func sessionView(sess *checkout.Session) gin.H {
	cart := sess.CartView()
	view := gin.H{
		"id":         sess.ID,
		"state":      sess.Flow.State(),
		"cart":       cart,
		"total":      cart.Total(),
		"order_type": sess.OrderType,
	}
	if sess.Flow.State() == checkout.StateQR {
		view["qr"] = gin.H{
			"reference": sess.Flow.Reference(),
			"merchant":  checkout.MerchantName,
			"amount":    sess.Flow.Amount(),
		}
	}
	return view
}

// --- POST /api/checkout ---
// Prices the submitted cart against the catalog and opens a payment flow
// at the selection step.
func StartCheckout(c *gin.Context) {
	var req StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !models.ValidOrderType(req.OrderType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order type must be pickup or delivery"})
		return
	}

	items, _, err := buildOrderItems(req.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cart checkout.Cart
	for i, item := range items {
		cart.Items = append(cart.Items, checkout.LineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Selection:   req.Items[i].Selection,
		})
	}

	sess := Sessions.Start(cart, req.Customer, req.OrderType)
	c.JSON(http.StatusCreated, sessionView(sess))
}

// --- GET /api/checkout/:id ---
func GetCheckout(c *gin.Context) {
	sess, err := Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

type ChooseMethodRequest struct {
	Method string `json:"method" binding:"required"` // 'gcash' or 'cod'
}

// --- POST /api/checkout/:id/method ---
func ChooseMethod(c *gin.Context) {
	sess, err := Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		return
	}

	var req ChooseMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := sess.Flow.ChooseMethod(req.Method); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionView(sess))
}

// --- POST /api/checkout/:id/back ---
func CheckoutBack(c *gin.Context) {
	sess, err := Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		return
	}

	if err := sess.Flow.Back(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionView(sess))
}

type ConfirmRequest struct {
	Originator string `json:"originator"` // GCash number paying, required on the qr path
}

// --- POST /api/checkout/:id/confirm ---
// Runs the simulated payment; on success writes the order with its
// payment already settled and clears the session.
func ConfirmCheckout(c *gin.Context) {
	sess, err := Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		return
	}

	var req ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	result, err := sess.Flow.Confirm(req.Originator)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, checkout.ErrProcessing) || errors.Is(err, checkout.ErrAlreadyPaid) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	cart := sess.CartView()

	var itemModels []models.OrderItem
	for _, line := range cart.Items {
		itemModels = append(itemModels, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Size:        line.Selection.Size,
			SugarLevel:  line.Selection.SugarLevel,
			IceLevel:    line.Selection.IceLevel,
			Addons:      line.Selection.Addons,
		})
	}

	order := models.Order{
		CustomerName:     sess.Customer.Name,
		CustomerEmail:    sess.Customer.Email,
		CustomerPhone:    sess.Customer.Phone,
		CustomerAddress:  sess.Customer.Address,
		Items:            itemModels,
		TotalAmount:      cart.Total(),
		OrderType:        sess.OrderType,
		PaymentMethod:    sess.Flow.MethodKey(),
		PaymentStatus:    models.PaymentPaid,
		PaymentReference: result.Reference,
	}

	if err := database.CreateOrder(&order); err != nil {
		zap.L().Error("order create after payment failed",
			zap.String("session", sess.ID), zap.Error(err))
		// Undo the terminal state so the client can retry the confirm
		// instead of being stuck with a payment and no order.
		sess.Flow.Reopen()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	sess.ClearCart()
	Sessions.Finish(sess.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful",
		"payment": result,
		"order":   order,
	})
}
