package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		"pending", "confirmed", "preparing", "ready", "completed", "cancelled",
	} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("held"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Pending"))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{"cod", "gcash", "maya", "card"} {
		assert.True(t, ValidPaymentMethod(m), m)
	}
	assert.False(t, ValidPaymentMethod("cash"))
}

func TestValidOrderType(t *testing.T) {
	assert.True(t, ValidOrderType("pickup"))
	assert.True(t, ValidOrderType("delivery"))
	assert.False(t, ValidOrderType("dine-in"))
}
