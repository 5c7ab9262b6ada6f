package utils

import (
	"strings"

	"vpark/internal/config"
)

// RateForCategory picks the hourly rate for a vehicle category string.
// Dispatch is by substring and order-sensitive: a category containing "2"
// gets the two-wheeler rate even if it also contains "3" (so "23-seater"
// bills as a two-wheeler). Anything without "2" or "3", including unknown
// categories, falls back to the four-wheeler rate.
func RateForCategory(rates config.RateTable, category string) float64 {
	key := strings.ToLower(category)
	switch {
	case strings.Contains(key, "2"):
		return rates.TwoWheeler
	case strings.Contains(key, "3"):
		return rates.ThreeWheeler
	default:
		return rates.FourWheeler
	}
}
