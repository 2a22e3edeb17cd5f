package database

import (
	"time"

	"milktea-server/internal/models"
)

// SalesReportResult summarizes paid revenue for a date range. Revenue only
// counts orders whose payment actually settled.
type SalesReportResult struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalCount   int64   `json:"total_count"`
}

// GetSalesReport calculates paid sales within a specific date range.
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE ensures we get 0 instead of NULL if no orders exist
	err := DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalRevenue).Error

	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&result.TotalCount).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}

// TopProduct is one row of the best-seller ranking.
type TopProduct struct {
	ProductName string  `json:"product_name"`
	Sold        int     `json:"sold"`
	Revenue     float64 `json:"revenue"`
}

// GetTopProducts ranks products by units sold across all orders.
func GetTopProducts(limit int) ([]TopProduct, error) {
	var top []TopProduct
	err := DB.Table("order_items").
		Select("order_items.product_name as product_name, SUM(order_items.quantity) as sold, SUM(order_items.quantity * order_items.unit_price) as revenue").
		Group("order_items.product_name").
		Order("sold desc").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

// DailyRevenue is one day of the revenue-by-day series.
type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// GetDailyRevenue returns per-day paid revenue for the last n days.
func GetDailyRevenue(days int) ([]DailyRevenue, error) {
	since := time.Now().AddDate(0, 0, -days)

	var series []DailyRevenue
	err := DB.Model(&models.Order{}).
		Select("DATE(created_at) as day, COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders").
		Where("created_at >= ?", since).
		Where("payment_status = ?", models.PaymentPaid).
		Group("DATE(created_at)").
		Order("day desc").
		Scan(&series).Error
	return series, err
}

// StatusCount is the number of orders currently in one lifecycle state.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetStatusBreakdown counts orders per status.
func GetStatusBreakdown() ([]StatusCount, error) {
	var counts []StatusCount
	err := DB.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}
