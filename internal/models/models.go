package models

import (
	"time"
)

// User - A storefront customer or an admin
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Role         string    `json:"role"` // 'customer', 'admin'
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - A menu item with its customization schedule
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	BasePrice   float64        `json:"base_price"`
	ImageURL    string         `json:"image_url"`
	Available   bool           `gorm:"default:true" json:"available"`
	Sizes       []ProductSize  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	Addons      []ProductAddon `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"addons"`
	SugarLevels []string       `gorm:"serializer:json" json:"sugar_levels"`
	IceLevels   []string       `gorm:"serializer:json" json:"ice_levels"`
}

// ProductSize - A cup size choice (e.g. "Large") and its price delta
type ProductSize struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ProductID  uint    `gorm:"index" json:"-"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"` // always >= 0
}

// ProductAddon - A topping choice (e.g. "Pearls") and its price delta
type ProductAddon struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ProductID  uint    `gorm:"index" json:"-"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"` // always >= 0
}

// Order - A finalized purchase
type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	OrderNumber      string      `gorm:"uniqueIndex;size:30" json:"order_number"`
	CustomerName     string      `json:"customer_name"`
	CustomerEmail    string      `gorm:"index;size:100" json:"customer_email"`
	CustomerPhone    string      `json:"customer_phone"`
	CustomerAddress  string      `json:"customer_address"`
	Items            []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount      float64     `json:"total_amount"`
	OrderType        string      `json:"order_type"` // 'pickup', 'delivery'
	Status           string      `json:"status"`
	PaymentMethod    string      `json:"payment_method"` // 'cod', 'gcash', 'maya', 'card'
	PaymentStatus    string      `json:"payment_status"` // 'pending', 'paid', 'failed'
	PaymentReference string      `json:"payment_reference"`
	CreatedAt        time.Time   `json:"created_at"`
}

// OrderItem - One customized drink on an order, with the price snapshot
type OrderItem struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	OrderID     uint     `gorm:"index" json:"order_id"`
	ProductID   uint     `json:"product_id"`
	ProductName string   `json:"product_name"` // Snapshot of name at order time
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"` // Snapshot of final customized price
	Size        string   `json:"size"`
	SugarLevel  string   `json:"sugar_level"`
	IceLevel    string   `json:"ice_level"`
	Addons      []string `gorm:"serializer:json" json:"addons"`
}

// OrderCounter - One row per day, bumped inside the order-create transaction
// so order numbers stay unique under concurrent checkouts.
type OrderCounter struct {
	Day      string `gorm:"primaryKey;size:8" json:"day"` // YYYYMMDD
	Sequence int    `json:"sequence"`
}

// AdminGuard - A single fixed-key row. Creating it is how setup-admin
// claims the one admin slot; the primary key makes the claim atomic even
// under concurrent setup calls.
type AdminGuard struct {
	ID uint `gorm:"primaryKey" json:"-"`
}

// Order lifecycle states. Admins may set any of these from any other;
// there is deliberately no forward-only transition table.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

var orderStatuses = []string{
	StatusPending, StatusConfirmed, StatusPreparing,
	StatusReady, StatusCompleted, StatusCancelled,
}

var paymentMethods = []string{"cod", "gcash", "maya", "card"}

// ValidStatus reports whether s is one of the six order statuses.
func ValidStatus(s string) bool {
	for _, v := range orderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	for _, v := range paymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// ValidOrderType reports whether t is 'pickup' or 'delivery'.
func ValidOrderType(t string) bool {
	return t == "pickup" || t == "delivery"
}
