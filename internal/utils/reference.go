package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// PaymentReference derives a short human-readable reference token from the
// current time, e.g. "PAY-3F9A2C1B7D04". The method prefix lets support
// staff tell GCash and COD receipts apart at a glance.
func PaymentReference(method string, now time.Time) string {
	seed := fmt.Sprintf("%s|%d", method, now.UnixNano())
	hash := sha256.Sum256([]byte(seed))
	token := strings.ToUpper(hex.EncodeToString(hash[:])[:12])

	prefix := "PAY"
	switch method {
	case "gcash":
		prefix = "GC"
	case "cod":
		prefix = "COD"
	}
	return prefix + "-" + token
}
