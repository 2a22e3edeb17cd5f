package database

import (
	"fmt"
	"time"

	"milktea-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextOrderNumber issues "ORD-YYYYMMDD-NNNN" from a per-day counter row.
// The bump is a single upsert, so two checkouts racing on the first order
// of the day cannot both insert the row or mint the same number. Must run
// inside tx.
func NextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	counter := models.OrderCounter{Day: day, Sequence: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"sequence": gorm.Expr("sequence + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return "", err
	}

	// Re-read: on the conflict path the struct still holds the insert values
	if err := tx.Where("day = ?", day).First(&counter).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%04d", day, counter.Sequence), nil
}

// CreateOrder persists an order inside a single transaction, assigning the
// order number exactly once. The caller fills everything except ID,
// OrderNumber and CreatedAt.
func CreateOrder(order *models.Order) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		number, err := NextOrderNumber(tx, time.Now())
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if order.Status == "" {
			order.Status = models.StatusPending
		}
		if order.PaymentStatus == "" {
			order.PaymentStatus = models.PaymentPending
		}
		return tx.Create(order).Error
	})
}
