package service

import (
	"errors"
	"math"
	"time"

	"vpark/internal/config"
	"vpark/internal/utils"
)

// ErrInvalidWindow is returned when a time window does not satisfy
// exit > entry.
var ErrInvalidWindow = errors.New("exit time must be after entry time")

// ComputeCost bills a parking window: duration rounded up to whole hours
// with a one hour minimum, times the hourly rate for the vehicle category.
func ComputeCost(rates config.RateTable, vehicleType string, entry, exit time.Time) (amount float64, billedHours int, err error) {
	if !exit.After(entry) {
		return 0, 0, ErrInvalidWindow
	}
	seconds := exit.Sub(entry).Seconds()
	billedHours = int(math.Ceil(seconds / 3600))
	if billedHours < 1 {
		billedHours = 1
	}
	rate := utils.RateForCategory(rates, vehicleType)
	return rate * float64(billedHours), billedHours, nil
}
