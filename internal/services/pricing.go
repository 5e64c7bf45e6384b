package services

import (
	"math"
	"strconv"
)

// SeatPrice computes the fare for a seat label given the passenger's
// current loyalty balance. Row bands: rows 1-5 cost 200, rows 6-15 cost
// 150, everything deeper costs 100. Window seats (A, F) add 20 and aisle
// seats (C, D) add 10; the letters are tested literally regardless of the
// aircraft width. The loyalty discount is capped at 30% of the
// pre-discount amount.
//
// The function is pure: it never touches stores and never mutates the
// balance it was given.
func SeatPrice(seatNumber string, loyaltyPoints float64) float64 {
	split := 0
	for split < len(seatNumber) && seatNumber[split] >= '0' && seatNumber[split] <= '9' {
		split++
	}
	row, _ := strconv.Atoi(seatNumber[:split])

	var price float64
	switch {
	case row >= 1 && row <= 5:
		price = 200
	case row >= 6 && row <= 15:
		price = 150
	default:
		price = 100
	}

	if split < len(seatNumber) {
		switch seatNumber[split] {
		case 'A', 'F':
			price += 20
		case 'C', 'D':
			price += 10
		}
	}

	discount := math.Min(loyaltyPoints, 0.30*price)
	return price - discount
}

// nextLoyaltyBalance applies the booking loyalty rule to a balance. A
// passenger holding points spends up to 10% of the fare; a passenger with
// none earns 10% of the fare, capped at 100 points.
func nextLoyaltyBalance(current, price float64) float64 {
	if current > 0 {
		return current - math.Min(current, 0.10*price)
	}
	next := current + 0.10*price
	if next > 100 {
		next = 100
	}
	return next
}
