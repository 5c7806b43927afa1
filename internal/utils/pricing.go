package utils

import (
	"fmt"
	"math"
	"time"
)

// RentalDays converts an explicit start/end date pair into a whole
// number of billable days, rounding partial days up. Minimum one day.
func RentalDays(start, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("end date must be after start date")
	}
	days := int64(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

// CalculateRentalCost computes the price snapshot recorded on a rental:
// the equipment's per-day price times the billed days times the quantity.
func CalculateRentalCost(pricePerDay float64, durationDays, quantity int64) (float64, error) {
	if pricePerDay < 0 {
		return 0, fmt.Errorf("price per day must be >= 0")
	}
	if durationDays < 1 {
		return 0, fmt.Errorf("duration must be at least 1 day")
	}
	if quantity < 1 {
		return 0, fmt.Errorf("quantity must be at least 1")
	}
	return pricePerDay * float64(durationDays) * float64(quantity), nil
}
