package handlers

import (
	"net/http"
	"time"

	"milktea-server/internal/database"
	"milktea-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardData is the admin landing-page payload.
type DashboardData struct {
	TotalRevenue    float64                `json:"total_revenue"` // paid orders only
	TotalOrders     int64                  `json:"total_orders"`
	TotalProducts   int64                  `json:"total_products"`
	PendingOrders   int64                  `json:"pending_orders"`
	StatusBreakdown []database.StatusCount `json:"status_breakdown"`
	RecentOrders    []models.Order         `json:"recent_orders"`
}

// --- GET /api/admin/dashboard ---
func GetDashboard(c *gin.Context) {
	var data DashboardData

	err := database.DB.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		zap.L().Error("revenue query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	database.DB.Model(&models.Order{}).Count(&data.TotalOrders)
	database.DB.Model(&models.Product{}).Count(&data.TotalProducts)
	database.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusPending).
		Count(&data.PendingOrders)

	breakdown, err := database.GetStatusBreakdown()
	if err != nil {
		zap.L().Error("status breakdown query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status breakdown"})
		return
	}
	data.StatusBreakdown = breakdown

	// Last 10 orders, newest first
	err = database.DB.Preload("Items").
		Order("created_at desc").Limit(10).
		Find(&data.RecentOrders).Error
	if err != nil {
		zap.L().Error("recent orders query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// --- GET /api/admin/orders ---
func AdminListOrders(c *gin.Context) {
	var orders []models.Order
	err := database.DB.Preload("Items").
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		zap.L().Error("admin orders query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AnalyticsData feeds the admin charts.
type AnalyticsData struct {
	Revenue      database.SalesReportResult `json:"revenue"`
	DailyRevenue []database.DailyRevenue    `json:"daily_revenue"`
	TopProducts  []database.TopProduct      `json:"top_products"`
}

// --- GET /api/admin/analytics ---
func GetAnalytics(c *gin.Context) {
	var data AnalyticsData

	// All-time paid revenue
	report, err := database.GetSalesReport(time.Unix(0, 0), time.Now())
	if err != nil {
		zap.L().Error("sales report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}
	data.Revenue = *report

	daily, err := database.GetDailyRevenue(30)
	if err != nil {
		zap.L().Error("daily revenue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily revenue"})
		return
	}
	data.DailyRevenue = daily

	top, err := database.GetTopProducts(5)
	if err != nil {
		zap.L().Error("top products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top products"})
		return
	}
	data.TopProducts = top

	c.JSON(http.StatusOK, data)
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PUT /api/admin/orders/:id/status ---
// The value must be one of the six lifecycle states but any state may be
// set from any other; there is intentionally no transition table.
func UpdateOrderStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	var order models.Order
	if err := database.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := database.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		zap.L().Error("status update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}
